package database

import (
	"fmt"
	"log"

	"restoran-pos/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedProduct struct {
	name     string
	price    string
	category string
}

var demoProducts = []seedProduct{
	{"Hamburguesa Clásica", "45.00", "Hamburguesas"},
	{"Hamburguesa Doble", "65.00", "Hamburguesas"},
	{"Hamburguesa BBQ", "70.00", "Hamburguesas"},
	{"Hamburguesa con Queso", "55.00", "Hamburguesas"},
	{"Hot Dog Simple", "30.00", "Hot Dogs"},
	{"Hot Dog Especial", "40.00", "Hot Dogs"},
	{"Hot Dog Mexicano", "45.00", "Hot Dogs"},
	{"Coca Cola", "15.00", "Bebidas"},
	{"Agua", "10.00", "Bebidas"},
	{"Jugo Natural", "20.00", "Bebidas"},
	{"Horchata", "18.00", "Bebidas"},
	{"Agua Fresca", "20.00", "Bebidas"},
	{"Papas Fritas", "20.00", "Acompañamientos"},
	{"Aros de Cebolla", "25.00", "Acompañamientos"},
	{"Nachos", "30.00", "Acompañamientos"},
	{"Tacos al Pastor", "35.00", "Tacos"},
	{"Tacos de Carnitas", "40.00", "Tacos"},
	{"Quesadilla", "45.00", "Mexicanos"},
	{"Burrito", "50.00", "Mexicanos"},
	{"Enchiladas", "48.00", "Mexicanos"},
	{"Flan", "25.00", "Postres"},
	{"Churros", "20.00", "Postres"},
}

// Seed fills empty reference tables with demo data. Tables that already
// contain rows are left alone.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedUsers(tx); err != nil {
			return err
		}
		if err := seedProducts(tx); err != nil {
			return err
		}
		return seedDiscounts(tx)
	})
}

func seedUsers(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	initial := []struct {
		username, password, name string
		role                     models.UserRole
	}{
		{"admin", "admin123", "Administrador", models.RoleAdmin},
		{"waiter", "waiter123", "Mesero Principal", models.RoleWaiter},
	}
	for _, u := range initial {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user := models.User{
			Username:     u.username,
			PasswordHash: string(hash),
			Name:         u.name,
			Role:         u.role,
			Active:       true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user %s: %w", u.username, err)
		}
	}
	log.Println("[SEED] demo users created (admin/admin123, waiter/waiter123), change the passwords.")
	return nil
}

func seedProducts(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := make([]models.Product, 0, len(demoProducts))
	for _, p := range demoProducts {
		products = append(products, models.Product{
			Name:     p.name,
			Price:    decimal.RequireFromString(p.price),
			Category: p.category,
			Active:   true,
		})
	}
	if err := tx.Create(&products).Error; err != nil {
		return fmt.Errorf("create products: %w", err)
	}
	log.Printf("[SEED] %d demo products created.", len(products))
	return nil
}

func seedDiscounts(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.DiscountCode{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	codes := []models.DiscountCode{
		{Code: "DESC10", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(10), Active: true},
		{Code: "DESC20", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(20), Active: true},
		{Code: "FIJO15", Kind: models.DiscountFixed, Value: decimal.NewFromInt(15), Active: true},
	}
	if err := tx.Create(&codes).Error; err != nil {
		return fmt.Errorf("create discount codes: %w", err)
	}
	return nil
}
