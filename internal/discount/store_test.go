package discount_test

import (
	"context"
	"errors"
	"testing"

	"restoran-pos/internal/database/dbtest"
	"restoran-pos/internal/discount"
	"restoran-pos/internal/models"

	"github.com/shopspring/decimal"
)

func TestNormalizeCode(t *testing.T) {
	if got := discount.NormalizeCode("  desc10 "); got != "DESC10" {
		t.Errorf("NormalizeCode = %q", got)
	}
}

func TestStore_CreateValidation(t *testing.T) {
	s := discount.NewStore(dbtest.Open(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   discount.Input
		want error
	}{
		{name: "empty code", in: discount.Input{Code: " ", Kind: models.DiscountFixed, Value: decimal.NewFromInt(5)}, want: discount.ErrInvalidDiscount},
		{name: "bad kind", in: discount.Input{Code: "X", Kind: "half", Value: decimal.NewFromInt(5)}, want: discount.ErrInvalidDiscount},
		{name: "zero value", in: discount.Input{Code: "X", Kind: models.DiscountFixed, Value: decimal.Zero}, want: discount.ErrInvalidDiscount},
		{name: "percentage over 100", in: discount.Input{Code: "X", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(101)}, want: discount.ErrInvalidDiscount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStore_CodesAreUpperCasedAndUnique(t *testing.T) {
	s := discount.NewStore(dbtest.Open(t))
	ctx := context.Background()

	dc, err := s.Create(ctx, discount.Input{Code: " desc10", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dc.Code != "DESC10" {
		t.Errorf("code = %q, want DESC10", dc.Code)
	}

	if _, err := s.Create(ctx, discount.Input{Code: "Desc10", Kind: models.DiscountFixed, Value: decimal.NewFromInt(3)}); !errors.Is(err, discount.ErrCodeExists) {
		t.Errorf("duplicate err = %v, want ErrCodeExists", err)
	}

	other, err := s.Create(ctx, discount.Input{Code: "FIJO15", Kind: models.DiscountFixed, Value: decimal.NewFromInt(15)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Update(ctx, other.ID, discount.Input{Code: "desc10", Kind: models.DiscountFixed, Value: decimal.NewFromInt(15)}); !errors.Is(err, discount.ErrCodeExists) {
		t.Errorf("update to taken code err = %v", err)
	}
	// keeping its own code is fine
	if _, err := s.Update(ctx, other.ID, discount.Input{Code: "fijo15", Kind: models.DiscountFixed, Value: decimal.NewFromInt(20)}); err != nil {
		t.Errorf("update own code: %v", err)
	}
}

func TestStore_ActiveDiscountByCode(t *testing.T) {
	s := discount.NewStore(dbtest.Open(t))
	ctx := context.Background()

	dc, err := s.Create(ctx, discount.Input{Code: "DESC20", Kind: models.DiscountPercentage, Value: decimal.NewFromInt(20)})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ActiveDiscountByCode(ctx, "DESC20")
	if err != nil || got == nil || got.ID != dc.ID {
		t.Fatalf("lookup = %+v, %v", got, err)
	}

	if got, err := s.ActiveDiscountByCode(ctx, "NOPE"); err != nil || got != nil {
		t.Errorf("unknown lookup = %+v, %v", got, err)
	}

	if err := s.SetActive(ctx, dc.ID, false); err != nil {
		t.Fatal(err)
	}
	if got, err := s.ActiveDiscountByCode(ctx, "DESC20"); err != nil || got != nil {
		t.Errorf("inactive lookup = %+v, %v", got, err)
	}

	inactive := false
	list, err := s.List(ctx, "desc", &inactive)
	if err != nil || len(list) != 1 {
		t.Errorf("List inactive = %+v, %v", list, err)
	}
}
