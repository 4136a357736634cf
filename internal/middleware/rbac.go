package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

// RoleSelf lets a caller through when the :id route parameter is their own user ID.
const RoleSelf models.Role = "SELF"

// RequireRoles enforces role-based access control for routes.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowSelf := false
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		if r == RoleSelf {
			allowSelf = true
			continue
		}
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		auth, ok := AuthFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[auth.Role]; ok {
			c.Next()
			return
		}

		if allowSelf {
			if targetID := c.Param("id"); targetID != "" && targetID == auth.UserID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
