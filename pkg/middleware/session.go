package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves a session token to the user it belongs to
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// NewSessionMiddleware guards a route with the session cookie. On success the
// user ID is set as userID and the user (without password hash) as user.
func NewSessionMiddleware(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		// A missing cookie is handled by Authenticate like any other bad token
		token, _ := c.Cookie(cookieName)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		user, err := auth.Authenticate(ctx, token)
		if err != nil {
			msg := "Not authorized, please login"

			var e *service.Error
			if errors.As(err, &e) {
				msg = e.Message
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     msg,
				"requestID": requestID,
			})

			zap.L().Debug("Rejected session", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser returns the user set by the session middleware
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet("user").(*model.User)
}
