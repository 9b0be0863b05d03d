package pricing

import (
	"context"
	"errors"
	"testing"

	"restoran-pos/internal/cart"
	"restoran-pos/internal/models"

	"github.com/shopspring/decimal"
)

type fakeProducts map[uint]models.Product

func (f fakeProducts) ActiveProductsByID(_ context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product)
	for _, id := range ids {
		if p, ok := f[id]; ok && p.Active {
			out[id] = p
		}
	}
	return out, nil
}

type fakeDiscounts map[string]models.DiscountCode

func (f fakeDiscounts) ActiveDiscountByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	dc, ok := f[code]
	if !ok || !dc.Active {
		return nil, nil
	}
	return &dc, nil
}

type failingProducts struct{}

func (failingProducts) ActiveProductsByID(context.Context, []uint) (map[uint]models.Product, error) {
	return nil, errors.New("db down")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id uint, name, price string) models.Product {
	return models.Product{ID: id, Name: name, Price: dec(price), Category: "General", Active: true}
}

func TestApplyDiscount(t *testing.T) {
	pct := func(v string) *models.DiscountCode {
		return &models.DiscountCode{Code: "P", Kind: models.DiscountPercentage, Value: dec(v), Active: true}
	}
	fixed := func(v string) *models.DiscountCode {
		return &models.DiscountCode{Code: "F", Kind: models.DiscountFixed, Value: dec(v), Active: true}
	}

	tests := []struct {
		name         string
		subtotal     string
		code         *models.DiscountCode
		wantDiscount string
		wantTotal    string
	}{
		{name: "no code", subtotal: "90", code: nil, wantDiscount: "0", wantTotal: "90"},
		{name: "ten percent", subtotal: "90", code: pct("10"), wantDiscount: "9", wantTotal: "81"},
		{name: "fractional percent", subtotal: "45", code: pct("15"), wantDiscount: "6.75", wantTotal: "38.25"},
		{name: "hundred percent", subtotal: "45", code: pct("100"), wantDiscount: "45", wantTotal: "0"},
		{name: "percent over hundred is clamped", subtotal: "45", code: pct("150"), wantDiscount: "45", wantTotal: "0"},
		{name: "fixed below subtotal", subtotal: "90", code: fixed("15"), wantDiscount: "15", wantTotal: "75"},
		{name: "fixed above subtotal is clamped", subtotal: "10", code: fixed("15"), wantDiscount: "10", wantTotal: "0"},
		{name: "zero subtotal", subtotal: "0", code: fixed("15"), wantDiscount: "0", wantTotal: "0"},
		{name: "negative value never adds", subtotal: "20", code: fixed("-5"), wantDiscount: "0", wantTotal: "20"},
		{name: "unknown kind", subtotal: "20", code: &models.DiscountCode{Kind: "bogus", Value: dec("5")}, wantDiscount: "0", wantTotal: "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ApplyDiscount(dec(tt.subtotal), tt.code)
			if !res.Discount.Equal(dec(tt.wantDiscount)) {
				t.Errorf("discount = %s, want %s", res.Discount, tt.wantDiscount)
			}
			if !res.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", res.Total, tt.wantTotal)
			}
			if res.Total.IsNegative() {
				t.Errorf("total is negative: %s", res.Total)
			}
		})
	}
}

// discount = min(S*V/100, S) and final = S - discount for a spread of inputs.
func TestApplyDiscount_PercentageProperty(t *testing.T) {
	for s := int64(0); s <= 500; s += 37 {
		for v := int64(0); v <= 120; v += 7 {
			subtotal := decimal.NewFromInt(s).Div(decimal.NewFromInt(4))
			dc := &models.DiscountCode{Kind: models.DiscountPercentage, Value: decimal.NewFromInt(v)}

			res := ApplyDiscount(subtotal, dc)

			want := decimal.Min(subtotal.Mul(dc.Value).Div(hundred), subtotal)
			if !res.Discount.Equal(want) {
				t.Fatalf("S=%s V=%d: discount %s, want %s", subtotal, v, res.Discount, want)
			}
			if !res.Total.Equal(subtotal.Sub(want)) || res.Total.IsNegative() {
				t.Fatalf("S=%s V=%d: total %s", subtotal, v, res.Total)
			}
		}
	}
}

func TestGroupByProduct(t *testing.T) {
	a := product(1, "Taco", "35.00")
	b := product(2, "Agua", "10.00")

	products := []models.Product{a, a, b}
	lines := GroupByProduct(products)

	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Name != "Taco" || lines[0].Quantity != 2 {
		t.Errorf("lines[0] = %+v", lines[0])
	}
	if lines[1].Name != "Agua" || lines[1].Quantity != 1 {
		t.Errorf("lines[1] = %+v", lines[1])
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	if !total.Equal(Subtotal(products)) {
		t.Errorf("grouped total %s != subtotal %s", total, Subtotal(products))
	}
}

// Grouping is keyed on the product name, so two ids sharing a name merge
// into one line that keeps the first id and price.
func TestGroupByProduct_SameNameDifferentIDsMerge(t *testing.T) {
	first := product(1, "Combo", "50.00")
	renamed := product(9, "Combo", "60.00")

	lines := GroupByProduct([]models.Product{first, renamed})

	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if lines[0].ProductID != 1 || lines[0].Quantity != 2 || !lines[0].UnitPrice.Equal(dec("50")) {
		t.Errorf("line = %+v", lines[0])
	}
}

func TestEngineQuote(t *testing.T) {
	inactive := product(3, "Flan", "25.00")
	inactive.Active = false

	products := fakeProducts{
		7: product(7, "Hamburguesa Clásica", "45.00"),
		8: product(8, "Coca Cola", "15.00"),
		3: inactive,
	}
	discounts := fakeDiscounts{
		"DESC10": {Code: "DESC10", Kind: models.DiscountPercentage, Value: dec("10"), Active: true},
		"OLD":    {Code: "OLD", Kind: models.DiscountFixed, Value: dec("5"), Active: false},
	}
	engine := NewEngine(products, discounts)
	ctx := context.Background()

	t.Run("skips unresolvable ids", func(t *testing.T) {
		q, err := engine.Quote(ctx, cart.Cart{7, 404, 3, 8}, "")
		if err != nil {
			t.Fatal(err)
		}
		if !q.Subtotal.Equal(dec("60")) || q.ItemCount() != 2 {
			t.Errorf("subtotal = %s, items = %d", q.Subtotal, q.ItemCount())
		}
		if q.CodeRejected || q.Code != nil {
			t.Errorf("no code entered, got %+v", q)
		}
	})

	t.Run("active code", func(t *testing.T) {
		q, err := engine.Quote(ctx, cart.Cart{7, 7}, "DESC10")
		if err != nil {
			t.Fatal(err)
		}
		if !q.Subtotal.Equal(dec("90")) || !q.Discount.Equal(dec("9")) || !q.Total.Equal(dec("81")) {
			t.Errorf("quote = %s/%s/%s", q.Subtotal, q.Discount, q.Total)
		}
		if q.Code == nil || q.Code.Code != "DESC10" {
			t.Errorf("code = %+v", q.Code)
		}
	})

	for _, code := range []string{"NOPE", "OLD"} {
		t.Run("rejected "+code, func(t *testing.T) {
			q, err := engine.Quote(ctx, cart.Cart{7, 7}, code)
			if err != nil {
				t.Fatal(err)
			}
			if !q.CodeRejected || !q.Discount.IsZero() || !q.Total.Equal(dec("90")) {
				t.Errorf("quote = %+v", q)
			}
		})
	}

	t.Run("empty cart", func(t *testing.T) {
		q, err := engine.Quote(ctx, nil, "DESC10")
		if err != nil {
			t.Fatal(err)
		}
		if !q.Subtotal.IsZero() || !q.Total.IsZero() || len(q.Lines) != 0 {
			t.Errorf("quote = %+v", q)
		}
	})
}

func TestEngineQuote_SourceError(t *testing.T) {
	engine := NewEngine(failingProducts{}, fakeDiscounts{})
	if _, err := engine.Quote(context.Background(), cart.Cart{1}, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestEngineEntries_KeepsCartPositions(t *testing.T) {
	products := fakeProducts{
		1: product(1, "Taco", "10.00"),
		3: product(3, "Agua", "5.00"),
	}
	e := NewEngine(products, fakeDiscounts{})

	entries, err := e.Entries(context.Background(), cart.Cart{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	// id 2 no longer resolves; Agua still sits at position 2
	if entries[0].Position != 0 || entries[1].Position != 2 || entries[1].Product.ID != 3 {
		t.Errorf("entries = %+v", entries)
	}
}
