package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered:
		return true
	}
	return false
}

type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Discount    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	Total       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	// Code text as it was applied at confirmation; empty when none matched.
	DiscountCode string      `gorm:"size:20" json:"discount_code"`
	Status       OrderStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	// Seconds from creation until the order first became ready.
	PrepSeconds *int  `json:"prep_seconds"`
	CreatedByID *uint `json:"created_by_id"`

	Lines []OrderLine `gorm:"constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// PrepMinutes rounds the stored preparation time to the nearest minute for display.
func (o Order) PrepMinutes() int {
	if o.PrepSeconds == nil {
		return 0
	}
	return int(math.Round(float64(*o.PrepSeconds) / 60))
}

type OrderLine struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"size:100;not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderCounter hands out the per-day sequence behind order numbers.
type OrderCounter struct {
	Day       string `gorm:"primaryKey;size:8"`
	LastValue int    `gorm:"not null"`
}
