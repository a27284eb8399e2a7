package middleware

import (
	"errors"
	"strings"

	"shop-admin/internal/dto"
	"shop-admin/internal/logger"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// RequireAuth accepts only requests carrying a valid bearer access token.
func RequireAuth(jwt *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if header == "" || !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, service.CodeUnauthorized, "authentication required")
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, service.ErrExpiredToken) {
				msg = "access token has expired"
			}
			abort(c, service.CodeTokenInvalid, msg)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireStaff must run after InjectUser.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, service.CodeUnauthorized, "authentication required")
			return
		}
		if !user.IsStaff {
			abort(c, service.CodeForbidden, "staff access required")
			return
		}
		c.Next()
	}
}

// Claims returns the access token claims set by RequireAuth.
func Claims(c *gin.Context) *service.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}

func abort(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.StatusFor(code), dto.NewErrorResponse(code, message, c.GetString(logger.RequestIDKey)))
}
