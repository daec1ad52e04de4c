package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/services"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const UsernameKey = "username"

// Authenticator checks a username/password pair against the user's tenant
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, tenant.Store, error)
}

// BasicAuth authenticates every request with HTTP Basic credentials and
// stores the canonical username in the gin context.
func BasicAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c, "authentication required")
			return
		}

		user, _, err := auth.Authenticate(c.Request.Context(), username, password)
		if errors.Is(err, services.ErrInvalidCredentials) {
			unauthorized(c, err.Error())
			return
		}
		if err != nil {
			log.WithError(err).WithField("username", username).Error("authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
			return
		}

		c.Set(UsernameKey, user.Username)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Basic realm="watchlist"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: msg,
	})
}

// GetUsername retrieves the authenticated username from the context
func GetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

// RequireAuth ensures a user is authenticated
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetUsername(c); !exists {
			unauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}
