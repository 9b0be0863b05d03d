package session

import (
	"time"

	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const CookieName = "pos_session"

// NewStore returns the server-side session store; only the session id
// travels in the cookie.
func NewStore(ttl time.Duration, secureCookie bool) *fibersession.Store {
	return fibersession.New(fibersession.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secureCookie,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
}
