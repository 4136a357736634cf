package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/logger"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

// ContextAuthKey is the gin context key storing the verified caller.
const ContextAuthKey = "currentAuth"

// TokenValidator turns a bearer token into the caller it identifies.
type TokenValidator interface {
	ValidateToken(token string) (models.AuthContext, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		auth, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAuthKey, auth)
		c.Set(logger.ContextUserID, auth.UserID)
		c.Set(logger.ContextRole, string(auth.Role))
		c.Next()
	}
}

// AuthFrom returns the caller stored by JWT.
func AuthFrom(c *gin.Context) (models.AuthContext, bool) {
	value, exists := c.Get(ContextAuthKey)
	if !exists {
		return models.AuthContext{}, false
	}
	auth, ok := value.(models.AuthContext)
	return auth, ok
}
