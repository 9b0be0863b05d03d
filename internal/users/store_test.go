package users_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"restoran-pos/internal/auth"
	"restoran-pos/internal/database/dbtest"
	"restoran-pos/internal/models"
	"restoran-pos/internal/users"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestStore_CreateValidation(t *testing.T) {
	s := users.NewStore(dbtest.Open(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   users.Input
		want error
	}{
		{name: "missing username", in: users.Input{Name: "Ana", Role: models.RoleWaiter, Password: "x"}, want: users.ErrInvalidUser},
		{name: "missing name", in: users.Input{Username: "ana", Role: models.RoleWaiter, Password: "x"}, want: users.ErrInvalidUser},
		{name: "bad role", in: users.Input{Username: "ana", Name: "Ana", Role: "chef", Password: "x"}, want: users.ErrInvalidUser},
		{name: "missing password", in: users.Input{Username: "ana", Name: "Ana", Role: models.RoleWaiter}, want: users.ErrInvalidUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStore_UsernameUnique(t *testing.T) {
	s := users.NewStore(dbtest.Open(t))
	ctx := context.Background()

	in := users.Input{Username: "ana", Name: "Ana", Role: models.RoleWaiter, Password: "secret"}
	if _, err := s.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(ctx, in); !errors.Is(err, users.ErrUsernameTaken) {
		t.Errorf("second Create err = %v, want ErrUsernameTaken", err)
	}
}

func TestStore_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	s := users.NewStore(dbtest.Open(t))
	ctx := context.Background()

	u, err := s.Create(ctx, users.Input{Username: "ana", Name: "Ana", Role: models.RoleWaiter, Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.Update(ctx, u.ID, users.Input{Username: "ana", Name: "Ana María", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PasswordHash != u.PasswordHash {
		t.Errorf("password hash changed on update without password")
	}
	if updated.Name != "Ana María" || updated.Role != models.RoleAdmin {
		t.Errorf("unexpected user %+v", updated)
	}

	updated, err = s.Update(ctx, u.ID, users.Input{Username: "ana", Name: "Ana", Role: models.RoleWaiter, Password: "other"})
	if err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(updated.PasswordHash, "other") {
		t.Errorf("new password was not stored")
	}
}

func TestStore_SetActive(t *testing.T) {
	s := users.NewStore(dbtest.Open(t))
	ctx := context.Background()

	admin, _ := s.Create(ctx, users.Input{Username: "admin", Name: "Admin", Role: models.RoleAdmin, Password: "a"})
	waiter, _ := s.Create(ctx, users.Input{Username: "mesero", Name: "Mesero", Role: models.RoleWaiter, Password: "w"})

	if err := s.SetActive(ctx, admin.ID, admin.ID, false); !errors.Is(err, users.ErrSelfDeactivate) {
		t.Errorf("self deactivate err = %v", err)
	}
	if err := s.SetActive(ctx, admin.ID, 999, false); !errors.Is(err, users.ErrNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
	if err := s.SetActive(ctx, admin.ID, waiter.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	u, err := s.FindActiveByUsername(ctx, "mesero")
	if err != nil || u != nil {
		t.Errorf("FindActiveByUsername on inactive user = %v, %v", u, err)
	}
	u, err = s.FindActive(ctx, waiter.ID)
	if err != nil || u != nil {
		t.Errorf("FindActive on inactive user = %v, %v", u, err)
	}

	if err := s.SetActive(ctx, admin.ID, waiter.ID, true); err != nil {
		t.Fatal(err)
	}
	u, err = s.FindActive(ctx, waiter.ID)
	if err != nil || u == nil {
		t.Errorf("FindActive after reactivation = %v, %v", u, err)
	}
}

func TestStore_AuthenticateThroughAuthService(t *testing.T) {
	s := users.NewStore(dbtest.Open(t))
	ctx := context.Background()
	if _, err := s.Create(ctx, users.Input{Username: "admin", Name: "Admin", Role: models.RoleAdmin, Password: "admin123"}); err != nil {
		t.Fatal(err)
	}
	svc := auth.NewService(s)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "ok", username: "admin", password: "admin123"},
		{name: "surrounding spaces", username: "  admin ", password: "admin123"},
		{name: "wrong password", username: "admin", password: "nope", want: auth.ErrWrongPassword},
		{name: "unknown user", username: "ghost", password: "admin123", want: auth.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
