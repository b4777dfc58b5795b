package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unnastore/unna-api/apperrors"
)

// respondError is the single place service errors become transport responses.
func respondError(ctx *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	body := gin.H{"status": "error"}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		if appErr.Details != nil {
			body["details"] = appErr.Details
		}
	} else {
		body["message"] = "internal server error"
	}

	ctx.JSON(status, body)
}

func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "invalid request body",
		"details": err.Error(),
	})
}
