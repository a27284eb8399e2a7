package middleware

import (
	"errors"

	"shop-admin/internal/database"
	"shop-admin/internal/logger"
	"shop-admin/internal/models"
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const currentUserKey = "CurrentUser"

// InjectUser loads the token's user into the context. Tokens of deleted or
// deactivated users are rejected even while unexpired.
func InjectUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, service.CodeUnauthorized, "authentication required")
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.FromGin(c).Error("Failed to load current user", zap.Error(err), zap.Uint("user_id", claims.UserID))
				abort(c, service.CodeInternal, "internal server error")
				return
			}
			abort(c, service.CodeTokenInvalid, "user no longer exists")
			return
		}
		if !user.IsActive {
			abort(c, service.CodeUnauthorized, "user account is disabled")
			return
		}

		c.Set(currentUserKey, &user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// Actor describes the caller for audit entries.
func Actor(c *gin.Context) database.Actor {
	actor := database.Actor{IP: c.ClientIP()}
	if u := CurrentUser(c); u != nil {
		id := u.ID
		actor.UserID = &id
	}
	return actor
}
