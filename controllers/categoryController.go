package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/services"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (c *CategoryController) List(ctx *gin.Context) {
	activeOnly := ctx.DefaultQuery("all", "false") != "true"
	categories, err := c.categories.List(ctx.Request.Context(), activeOnly)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (c *CategoryController) GetBySlug(ctx *gin.Context) {
	category, err := c.categories.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

func (c *CategoryController) Create(ctx *gin.Context) {
	var input services.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	category, err := c.categories.Create(ctx.Request.Context(), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

func (c *CategoryController) Update(ctx *gin.Context) {
	categoryID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid category id"})
		return
	}

	var input services.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	category, err := c.categories.Update(ctx.Request.Context(), uint(categoryID), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

func (c *CategoryController) Delete(ctx *gin.Context) {
	categoryID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid category id"})
		return
	}

	if err := c.categories.Delete(ctx.Request.Context(), uint(categoryID)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
