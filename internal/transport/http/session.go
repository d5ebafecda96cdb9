package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/light-bringer/procat-browse/internal/app/catalog/session"
)

// Session identification.
const (
	HeaderSessionID = "X-Session-ID"
	CookieSession   = "catalog_session"
)

// sessionID returns the client's session ID from the header or the cookie.
func sessionID(c echo.Context) string {
	if id := c.Request().Header.Get(HeaderSessionID); id != "" {
		return id
	}
	if cookie, err := c.Cookie(CookieSession); err == nil {
		return cookie.Value
	}
	return ""
}

// acquireSession returns the caller's session, creating one when needed,
// and tells the client which ID to send next time.
func acquireSession(c echo.Context, registry *session.Registry, idleTimeout time.Duration) *session.Session {
	s, _ := registry.Acquire(sessionID(c))

	c.Response().Header().Set(HeaderSessionID, s.ID())
	cookie := &http.Cookie{
		Name:     CookieSession,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if idleTimeout > 0 {
		cookie.MaxAge = int(idleTimeout / time.Second)
	}
	c.SetCookie(cookie)
	return s
}
