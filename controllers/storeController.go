package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/services"
)

type StoreController struct {
	stores *services.StoreService
}

func NewStoreController(stores *services.StoreService) *StoreController {
	return &StoreController{stores: stores}
}

func (c *StoreController) List(ctx *gin.Context) {
	activeOnly := ctx.DefaultQuery("all", "false") != "true"
	stores, err := c.stores.List(ctx.Request.Context(), activeOnly)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (c *StoreController) GetBySlug(ctx *gin.Context) {
	store, err := c.stores.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, store)
}

func (c *StoreController) Create(ctx *gin.Context) {
	var input services.StoreInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	store, err := c.stores.Create(ctx.Request.Context(), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, store)
}

func (c *StoreController) Update(ctx *gin.Context) {
	storeID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid store id"})
		return
	}

	var input services.StoreInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	store, err := c.stores.Update(ctx.Request.Context(), uint(storeID), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, store)
}

func (c *StoreController) Delete(ctx *gin.Context) {
	storeID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid store id"})
		return
	}

	if err := c.stores.Delete(ctx.Request.Context(), uint(storeID)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "store deleted"})
}
