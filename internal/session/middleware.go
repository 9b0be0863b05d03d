package session

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	stateKey  = "pos_state"
	localsKey = "pos_session_state"
)

var blankState = func() string {
	b, _ := json.Marshal(&State{})
	return string(b)
}()

// Middleware loads the State for the request, runs the rest of the chain and
// persists the State if a handler modified it.
func Middleware(store *fibersession.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		raw, _ := sess.Get(stateKey).(string)
		st := &State{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), st); err != nil {
				// unreadable state is treated as logged out
				st = &State{}
			}
		}
		c.Locals(localsKey, st)

		handlerErr := c.Next()

		if st.signedOut {
			if err := sess.Destroy(); err != nil {
				return fmt.Errorf("destroy session: %w", err)
			}
			return handlerErr
		}

		encoded, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		unchanged := string(encoded) == raw || (raw == "" && string(encoded) == blankState)
		if unchanged && !st.signedIn {
			return handlerErr
		}
		if st.signedIn {
			if err := sess.Regenerate(); err != nil {
				return fmt.Errorf("regenerate session: %w", err)
			}
		}
		sess.Set(stateKey, string(encoded))
		if err := sess.Save(); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return handlerErr
	}
}

// From returns the request's State. Outside the middleware it returns an
// empty, logged-out State so callers never deal with nil.
func From(c *fiber.Ctx) *State {
	if st, ok := c.Locals(localsKey).(*State); ok {
		return st
	}
	st := &State{}
	c.Locals(localsKey, st)
	return st
}
