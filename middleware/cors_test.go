package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsResponse(t *testing.T, origins []string, origin string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := CORSMiddleware(origins)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, origin)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestCORSMiddlewareHonorsConfiguredOrigins(t *testing.T) {
	rec := corsResponse(t, []string{"https://ops.example.com"}, "https://ops.example.com")
	assert.Equal(t, "https://ops.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = corsResponse(t, []string{"https://ops.example.com"}, "https://elsewhere.example.com")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestCORSMiddlewareDefaultsToWildcard(t *testing.T) {
	rec := corsResponse(t, nil, "https://anywhere.example.com")
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
