// Command createadmin creates an admin account, or resets its password and
// role when the username already exists.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"restoran-pos/internal/config"
	"restoran-pos/internal/database"
	"restoran-pos/internal/models"
	"restoran-pos/internal/users"
)

func main() {
	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "", "new password (required)")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -username admin -password <secret> [-name \"Full Name\"]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store := users.NewStore(db)
	in := users.Input{Username: *username, Name: *name, Role: models.RoleAdmin, Password: *password}

	existing, err := store.ByUsername(ctx, *username)
	switch {
	case errors.Is(err, users.ErrNotFound):
		u, err := store.Create(ctx, in)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("admin %q created (id %d)", u.Username, u.ID)
	case err != nil:
		log.Fatal(err)
	default:
		if _, err := store.Update(ctx, existing.ID, in); err != nil {
			log.Fatal(err)
		}
		if err := store.SetActive(ctx, 0, existing.ID, true); err != nil {
			log.Fatal(err)
		}
		log.Printf("admin %q updated", existing.Username)
	}
}
