// Package pricing turns a cart into priced lines and applies at most one
// discount code. Given the same cart, catalog and discount rows it always
// produces the same result.
package pricing

import (
	"context"
	"fmt"

	"restoran-pos/internal/cart"
	"restoran-pos/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProductSource resolves live (active) products. Ids that are unknown or
// inactive are simply absent from the returned map.
type ProductSource interface {
	ActiveProductsByID(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

// DiscountSource finds an active code by exact match. It returns nil, nil
// when nothing matches.
type DiscountSource interface {
	ActiveDiscountByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

// Line is one product group of a cart.
type Line struct {
	ProductID uint
	Name      string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Result is the outcome of ApplyDiscount.
type Result struct {
	Total    decimal.Decimal
	Discount decimal.Decimal
	Code     *models.DiscountCode
}

type Quote struct {
	Lines    []Line
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	// Code is the matched discount, nil when none applied.
	Code *models.DiscountCode
	// CodeRejected is set when a code was entered but no active code matched.
	// The code stays in the session until removed.
	CodeRejected bool
}

func (q Quote) ItemCount() int {
	n := 0
	for _, l := range q.Lines {
		n += l.Quantity
	}
	return n
}

type Engine struct {
	products  ProductSource
	discounts DiscountSource
}

func NewEngine(products ProductSource, discounts DiscountSource) *Engine {
	return &Engine{products: products, discounts: discounts}
}

// Resolve returns the live product for every cart entry, in cart order,
// skipping entries that no longer resolve.
func (e *Engine) Resolve(ctx context.Context, c cart.Cart) ([]models.Product, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	byID, err := e.products.ActiveProductsByID(ctx, uniqueIDs(c))
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	out := make([]models.Product, 0, len(c))
	for _, id := range c {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Entry is a resolved cart entry together with its position in the cart.
type Entry struct {
	Position int
	Product  models.Product
}

// Entries is Resolve keeping cart positions, for removal by position.
func (e *Engine) Entries(ctx context.Context, c cart.Cart) ([]Entry, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	byID, err := e.products.ActiveProductsByID(ctx, uniqueIDs(c))
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	out := make([]Entry, 0, len(c))
	for i, id := range c {
		if p, ok := byID[id]; ok {
			out = append(out, Entry{Position: i, Product: p})
		}
	}
	return out, nil
}

// Quote prices the cart and applies code. An empty code skips the lookup.
func (e *Engine) Quote(ctx context.Context, c cart.Cart, code string) (Quote, error) {
	products, err := e.Resolve(ctx, c)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Lines:    GroupByProduct(products),
		Subtotal: Subtotal(products),
	}

	var dc *models.DiscountCode
	if code != "" {
		dc, err = e.discounts.ActiveDiscountByCode(ctx, code)
		if err != nil {
			return Quote{}, fmt.Errorf("lookup discount code: %w", err)
		}
		q.CodeRejected = dc == nil
	}

	res := ApplyDiscount(q.Subtotal, dc)
	q.Discount = res.Discount
	q.Total = res.Total
	q.Code = res.Code
	return q, nil
}

// Subtotal sums the live prices of the resolved cart entries.
func Subtotal(products []models.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Price)
	}
	return sum
}

// GroupByProduct aggregates entries into lines keyed by product name, in the
// order names first appear. Two distinct products that share a name collapse
// into one line carrying the first product's id and price.
func GroupByProduct(products []models.Product) []Line {
	index := make(map[string]int, len(products))
	var lines []Line
	for _, p := range products {
		if i, ok := index[p.Name]; ok {
			lines[i].Quantity++
			continue
		}
		index[p.Name] = len(lines)
		lines = append(lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			UnitPrice: p.Price,
			Quantity:  1,
		})
	}
	return lines
}

// ApplyDiscount applies dc to subtotal. A nil code leaves the subtotal
// unchanged. The discount never exceeds the subtotal and is never negative.
func ApplyDiscount(subtotal decimal.Decimal, dc *models.DiscountCode) Result {
	if dc == nil {
		return Result{Total: subtotal, Discount: decimal.Zero}
	}

	var discount decimal.Decimal
	switch dc.Kind {
	case models.DiscountPercentage:
		discount = subtotal.Mul(dc.Value).Div(hundred)
	case models.DiscountFixed:
		discount = dc.Value
	default:
		return Result{Total: subtotal, Discount: decimal.Zero}
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return Result{
		Total:    subtotal.Sub(discount),
		Discount: discount,
		Code:     dc,
	}
}

func uniqueIDs(c cart.Cart) []uint {
	seen := make(map[uint]struct{}, len(c))
	out := make([]uint, 0, len(c))
	for _, id := range c {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
