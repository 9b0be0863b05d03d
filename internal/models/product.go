package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product rows are never hard-deleted once an order line references them;
// Active=false hides them from the POS.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Category  string          `gorm:"size:50;not null;index" json:"category"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
