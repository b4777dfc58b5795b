package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/unnastore/unna-api/models"
)

const (
	ContextUserID = "userID"
	ContextRole   = "userRole"
)

// Authenticate validates the Bearer access token and stores the caller's id
// and role in the request context.
func Authenticate(accessSecret string) gin.HandlerFunc {
	secret := []byte(accessSecret)

	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "message": "missing or malformed authorization header",
			})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "message": "invalid or expired token",
			})
			return
		}
		if typ, _ := claims["typ"].(string); typ != "access" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "message": "invalid or expired token",
			})
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error", "message": "invalid or expired token",
			})
			return
		}

		role, _ := claims["role"].(string)
		ctx.Set(ContextUserID, uint(userID))
		ctx.Set(ContextRole, models.Role(role))
		ctx.Next()
	}
}

// RequireAdmin allows only ADMIN callers past. Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, exists := ctx.Get(ContextRole)
		if !exists || role.(models.Role) != models.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status": "error", "message": "admin access required",
			})
			return
		}
		ctx.Next()
	}
}

// UserID reads the authenticated user id set by Authenticate.
func UserID(ctx *gin.Context) uint {
	value, _ := ctx.Get(ContextUserID)
	id, _ := value.(uint)
	return id
}

// UserRole reads the authenticated role set by Authenticate.
func UserRole(ctx *gin.Context) models.Role {
	value, _ := ctx.Get(ContextRole)
	role, _ := value.(models.Role)
	return role
}
