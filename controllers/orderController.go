package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/middlewares"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func requester(ctx *gin.Context) services.Requester {
	return services.Requester{
		UserID: middlewares.UserID(ctx),
		Role:   middlewares.UserRole(ctx),
	}
}

// Create handles POST /orders.
func (c *OrderController) Create(ctx *gin.Context) {
	var input services.CreateOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, err := c.orders.CreateOrder(ctx.Request.Context(), middlewares.UserID(ctx), &input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// GetDetails handles GET /orders/:orderNumber.
func (c *OrderController) GetDetails(ctx *gin.Context) {
	details, err := c.orders.GetOrderDetails(ctx.Request.Context(), requester(ctx), ctx.Param("orderNumber"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// ListMine handles GET /orders.
func (c *OrderController) ListMine(ctx *gin.Context) {
	orders, err := c.orders.ListByUser(ctx.Request.Context(), middlewares.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// RetryPreference handles POST /orders/:orderNumber/preference.
func (c *OrderController) RetryPreference(ctx *gin.Context) {
	result, err := c.orders.RetryPreference(ctx.Request.Context(), requester(ctx), ctx.Param("orderNumber"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListAll handles GET /admin/orders?status=.
func (c *OrderController) ListAll(ctx *gin.Context) {
	orders, err := c.orders.ListAll(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateStatus handles PATCH /admin/orders/:id/status.
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid order id"})
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, err := c.orders.UpdateOrderStatus(ctx.Request.Context(), uint(orderID), body.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
