package database

import (
	"fmt"
	"log"
	"time"

	"restoran-pos/internal/config"
	"restoran-pos/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres. It returns an error instead of exiting so the
// caller can serve a diagnostic page.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().In(cfg.Location())
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established.")
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Tables lists every model the application needs, in migration order.
func Tables() []any {
	return []any{
		&models.User{},
		&models.Product{},
		&models.DiscountCode{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderCounter{},
		&models.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// MissingTables reports the application tables that do not exist yet,
// together with every table currently present in the database.
func MissingTables(db *gorm.DB) (missing []string, existing []string, err error) {
	existing, err = db.Migrator().GetTables()
	if err != nil {
		return nil, nil, fmt.Errorf("list tables: %w", err)
	}

	for _, model := range Tables() {
		if db.Migrator().HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, nil, fmt.Errorf("parse model: %w", err)
		}
		missing = append(missing, stmt.Schema.Table)
	}
	return missing, existing, nil
}
