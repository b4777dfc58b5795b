package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/middlewares"
	"github.com/unnastore/unna-api/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (c *AuthController) Register(ctx *gin.Context) {
	var input services.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, err := c.auth.Register(ctx.Request.Context(), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (c *AuthController) Login(ctx *gin.Context) {
	var input services.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	tokens, err := c.auth.Login(ctx.Request.Context(), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tokens)
}

func (c *AuthController) Refresh(ctx *gin.Context) {
	var input services.RefreshInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	tokens, err := c.auth.Refresh(ctx.Request.Context(), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tokens)
}

func (c *AuthController) Me(ctx *gin.Context) {
	user, err := c.auth.Me(ctx.Request.Context(), middlewares.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}
