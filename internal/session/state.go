// Package session keeps the signed-in user, cart, applied discount code and
// flash message of one browser session. Handlers work on a *State loaded for
// the current request; the middleware writes it back when it changed.
package session

import (
	"time"

	"restoran-pos/internal/cart"
	"restoran-pos/internal/models"
)

type State struct {
	UserID      uint            `json:"user_id,omitempty"`
	Username    string          `json:"username,omitempty"`
	DisplayName string          `json:"display_name,omitempty"`
	Role        models.UserRole `json:"role,omitempty"`
	LoginAt     time.Time       `json:"login_at,omitempty"`

	Cart         cart.Cart `json:"cart,omitempty"`
	DiscountCode string    `json:"discount_code,omitempty"`
	LastOrderID  uint      `json:"last_order_id,omitempty"`
	Flash        string    `json:"flash,omitempty"`

	signedIn  bool
	signedOut bool
}

func (s *State) LoggedIn() bool {
	return s.UserID != 0
}

func (s *State) IsAdmin() bool {
	return s.LoggedIn() && s.Role == models.RoleAdmin
}

// SignIn starts a fresh session for the user; any cart left from a previous
// user is dropped.
func (s *State) SignIn(u *models.User, now time.Time) {
	*s = State{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.Name,
		Role:        u.Role,
		LoginAt:     now,
		signedIn:    true,
	}
}

func (s *State) SignOut() {
	*s = State{signedOut: true}
}

func (s *State) SetFlash(msg string) {
	s.Flash = msg
}

// TakeFlash returns the pending flash message and clears it.
func (s *State) TakeFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

// ClearCart empties the cart and forgets the applied discount code.
func (s *State) ClearCart() {
	s.Cart.Clear()
	s.DiscountCode = ""
}

// MarkOrderPlaced is the post-condition of a successful confirmation.
func (s *State) MarkOrderPlaced(orderID uint) {
	s.ClearCart()
	s.LastOrderID = orderID
}
