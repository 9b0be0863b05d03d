package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"restoran-pos/internal/config"
	"restoran-pos/internal/database"
	"restoran-pos/internal/logger"
	"restoran-pos/internal/web"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	lg := logger.New("restoran-pos")

	app := build(cfg, lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			lg.Error("shutdown", "", "server shutdown failed", err)
		}
	}()

	lg.Info("startup", "", "server listening", slog.String("port", cfg.HTTPPort), slog.String("env", cfg.Environment))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

// build returns the full application, or a diagnostic server when the
// database cannot be reached or its schema is incomplete.
func build(cfg *config.Config, lg *logger.Logger) *fiber.App {
	db, err := database.Open(cfg)
	if err != nil {
		lg.Error("startup", "", "database unavailable, serving diagnostic page", err)
		return web.NewDiagnosticServer(cfg, web.NewConnectionDiagnostic(cfg, err))
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			lg.Error("startup", "", "schema migration failed", err)
		}
	}
	missing, existing, err := database.MissingTables(db)
	if err != nil {
		lg.Error("startup", "", "schema check failed, serving diagnostic page", err)
		return web.NewDiagnosticServer(cfg, web.NewConnectionDiagnostic(cfg, err))
	}
	if len(missing) > 0 {
		lg.Warn("startup", "", "schema incomplete, serving diagnostic page", slog.Any("missing", missing))
		return web.NewDiagnosticServer(cfg, web.NewSchemaDiagnostic(cfg, missing, existing))
	}

	if cfg.SeedDemoData {
		if err := database.Seed(db); err != nil {
			lg.Error("startup", "", "demo data could not be seeded", err)
		}
	}
	return web.NewServer(cfg, db, lg, web.Options{})
}
