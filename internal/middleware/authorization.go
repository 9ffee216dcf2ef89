// Package middleware provides role-based authorization middleware.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/domain/model"
)

// RequireAdmin returns a middleware that rejects requests from users who do
// not hold the admin role. It must be used after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}

// RequireRole returns a middleware that rejects requests from users whose
// role does not match. It must be used after JWTAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := GetRequestID(c)

		claimsInterface, exists := c.Get("user_claims")
		if !exists {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, "authentication required").
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}

		claims, ok := claimsInterface.(*dto.Claims)
		if !ok {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, "authentication required").
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}

		if claims.Role != role {
			errorResp := dto.NewError(dto.ErrCodeForbidden, "insufficient permissions").
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusForbidden, errorResp)
			return
		}

		c.Next()
	}
}
