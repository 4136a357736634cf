package requestid

import (
	"context"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderKey carries the request ID to and from clients and the tutoring backend.
const HeaderKey = "X-Request-ID"

const ginKey = "request_id"

type ctxKey struct{}

var acceptable = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Middleware reuses a well formed client request ID or mints a UUID, then stores it on
// both the gin context and the request context so outbound calls can forward it.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderKey)
		if !acceptable.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(ginKey, id)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), id))
		c.Writer.Header().Set(HeaderKey, id)

		c.Next()
	}
}

// Value returns the request ID stored in the gin context.
func Value(c *gin.Context) string {
	return c.GetString(ginKey)
}

// NewContext attaches id to ctx.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID carried by ctx, if any.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
