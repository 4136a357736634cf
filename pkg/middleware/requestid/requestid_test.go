package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(seen, fromCtx *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		*seen = Value(c)
		*fromCtx = FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddlewareGeneratesAndEchoesID(t *testing.T) {
	var seen, fromCtx string
	r := newRouter(&seen, &fromCtx)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(HeaderKey))
	assert.Equal(t, seen, fromCtx)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderKey, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", fromCtx)
}

func TestMiddlewareReplacesMalformedID(t *testing.T) {
	var seen, fromCtx string
	r := newRouter(&seen, &fromCtx)

	for _, bad := range []string{"has space", "<script>", strings.Repeat("a", 129)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderKey, bad)
		r.ServeHTTP(httptest.NewRecorder(), req)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err, bad)
	}
}

func TestFromContextWithoutID(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
	assert.Equal(t, "x-1", FromContext(NewContext(context.Background(), "x-1")))
}
