package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/middleware"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

// authFromContext returns the verified caller or writes a 401 and reports false.
func authFromContext(c *gin.Context) (models.AuthContext, bool) {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.AuthContext{}, false
	}
	return auth, true
}
