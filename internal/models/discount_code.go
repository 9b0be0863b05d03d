package models

import "github.com/shopspring/decimal"

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

func (k DiscountKind) Valid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

type DiscountCode struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	Code   string          `gorm:"size:20;uniqueIndex;not null" json:"code"` // always upper-case
	Kind   DiscountKind    `gorm:"size:20;not null" json:"kind"`
	Value  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"value"`
	Active bool            `gorm:"not null;default:true" json:"active"`
}
