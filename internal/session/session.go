// Package session gives every visitor a stable session ID carried in a
// cookie. The cart store keys its state on this ID.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "sid"
	ContextKey = "sessionID"

	cookieTTL = 30 * 24 * time.Hour
)

// Middleware ensures the request carries a session ID, minting one when
// the cookie is missing or empty.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				c.Set(ContextKey, ck.Value)
				return next(c)
			}

			sid := uuid.NewString()
			c.SetCookie(NewCookie(sid))
			c.Set(ContextKey, sid)
			return next(c)
		}
	}
}

func NewCookie(sid string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(cookieTTL),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ID returns the session ID set by Middleware, or "" when the middleware
// did not run.
func ID(c echo.Context) string {
	if v, ok := c.Get(ContextKey).(string); ok {
		return v
	}
	return ""
}
