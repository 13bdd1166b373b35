package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	cfg := DefaultConfig()
	cfg.SkipPrefixes = []string{"/api/"}
	e := echo.New()
	e.Use(Middleware(cfg))
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, Token(c)) })
	e.POST("/form", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.POST("/api/products", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	return e
}

func post(e *echo.Echo, token, field, origin string) *httptest.ResponseRecorder {
	form := url.Values{"csrf_token": {field}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	e := newEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	assert.Equal(t, token, rec.Header().Get("X-CSRF-Token"))

	assert.Equal(t, http.StatusNoContent, post(e, token, token, "http://example.com").Code)
	assert.Equal(t, http.StatusForbidden, post(e, token, "wrong", "http://example.com").Code)
	assert.Equal(t, http.StatusForbidden, post(e, "", "", "http://example.com").Code)
	assert.Equal(t, http.StatusForbidden, post(e, token, token, "http://evil.test").Code)
	assert.Equal(t, http.StatusForbidden, post(e, token, token, "").Code)
}

func TestMiddleware_SkipsPrefixes(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMiddleware_OriginCheckOff(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(Middleware(Config{}))
	e.POST("/form", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	// the token is still required when only the origin check is off
	assert.Equal(t, http.StatusNoContent, post(e, "tok", "tok", "").Code)
	assert.Equal(t, http.StatusForbidden, post(e, "tok", "other", "").Code)
}
