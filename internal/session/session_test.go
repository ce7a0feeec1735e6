package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareMintsSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var seen string
	next := func(c echo.Context) error {
		seen = ID(c)
		return nil
	}
	require.NoError(t, Middleware()(next)(c))
	require.NotEmpty(t, seen)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	require.Equal(t, seen, cookie.Value)
	require.True(t, cookie.HttpOnly)
}

func TestMiddlewareKeepsExistingSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "existing-session"})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var seen string
	next := func(c echo.Context) error {
		seen = ID(c)
		return nil
	}
	require.NoError(t, Middleware()(next)(c))
	require.Equal(t, "existing-session", seen)
	require.Empty(t, rec.Result().Cookies())
}

func TestIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	require.Equal(t, "", ID(c))
}
