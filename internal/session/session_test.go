package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"restoran-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(Middleware(NewStore(time.Hour, false)))

	app.Get("/login", func(c *fiber.Ctx) error {
		From(c).SignIn(&models.User{ID: 3, Username: "ana", Name: "Ana", Role: models.RoleWaiter}, time.Now())
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/add/:id", func(c *fiber.Ctx) error {
		id, _ := strconv.Atoi(c.Params("id"))
		From(c).Cart.Add(uint(id))
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/flash", func(c *fiber.Ctx) error {
		From(c).SetFlash("hello")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/show", func(c *fiber.Ctx) error {
		st := From(c)
		return c.SendString(st.Username + "|" + strconv.Itoa(st.Cart.Len()) + "|" + st.TakeFlash())
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		From(c).SignOut()
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (cl *client) get(path string) string {
	cl.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cl.cookie != "" {
		req.Header.Set("Cookie", CookieName+"="+cl.cookie)
	}
	resp, err := cl.app.Test(req)
	if err != nil {
		cl.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			cl.cookie = ck.Value
		}
	}
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestMiddleware_PersistsStateAcrossRequests(t *testing.T) {
	cl := &client{t: t, app: newTestApp()}

	cl.get("/login")
	cl.get("/add/7")
	cl.get("/add/7")
	cl.get("/flash")

	if got := cl.get("/show"); got != "ana|2|hello" {
		t.Errorf("show = %q, want ana|2|hello", got)
	}
	// flash is consumed by the previous read
	if got := cl.get("/show"); got != "ana|2|" {
		t.Errorf("show = %q, want ana|2|", got)
	}
}

func TestMiddleware_SignOutDropsState(t *testing.T) {
	cl := &client{t: t, app: newTestApp()}

	cl.get("/login")
	cl.get("/add/1")
	cl.get("/logout")

	if got := cl.get("/show"); got != "|0|" {
		t.Errorf("show after logout = %q, want |0|", got)
	}
}

func TestMiddleware_AnonymousRequestSetsNoCookie(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/show", nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			t.Errorf("unexpected session cookie %q", ck.Value)
		}
	}
}

func TestState_SignInDropsPreviousCart(t *testing.T) {
	st := &State{}
	st.Cart.Add(1)
	st.DiscountCode = "DESC10"

	st.SignIn(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}, time.Now())

	if !st.Cart.IsEmpty() || st.DiscountCode != "" {
		t.Errorf("state carried over: %+v", st)
	}
	if !st.IsAdmin() {
		t.Errorf("expected admin session")
	}
}

func TestState_MarkOrderPlaced(t *testing.T) {
	st := &State{UserID: 1, DiscountCode: "DESC10"}
	st.Cart.Add(4)

	st.MarkOrderPlaced(42)

	if !st.Cart.IsEmpty() || st.DiscountCode != "" || st.LastOrderID != 42 {
		t.Errorf("unexpected state %+v", st)
	}
}
