package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/middlewares"
	"github.com/unnastore/unna-api/services"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (c *CartController) Get(ctx *gin.Context) {
	view, err := c.carts.GetCart(ctx.Request.Context(), middlewares.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (c *CartController) AddItem(ctx *gin.Context) {
	var input services.AddCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	item, err := c.carts.AddItem(ctx.Request.Context(), middlewares.UserID(ctx), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

func (c *CartController) UpdateItem(ctx *gin.Context) {
	itemID, err := strconv.ParseUint(ctx.Param("itemId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid item id"})
		return
	}

	var input services.UpdateCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	if err := c.carts.UpdateItem(ctx.Request.Context(), middlewares.UserID(ctx), uint(itemID), &input); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "cart item updated"})
}

func (c *CartController) RemoveItem(ctx *gin.Context) {
	itemID, err := strconv.ParseUint(ctx.Param("itemId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid item id"})
		return
	}

	if err := c.carts.RemoveItem(ctx.Request.Context(), middlewares.UserID(ctx), uint(itemID)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
}
