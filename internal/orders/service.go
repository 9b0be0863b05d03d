// Package orders turns carts into persisted orders and moves them through
// the kitchen pipeline pending → preparing → ready → delivered.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restoran-pos/internal/cart"
	"restoran-pos/internal/models"
	"restoran-pos/internal/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNothingToOrder    = errors.New("none of the products in the cart are available")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrStaleStatus       = errors.New("order status changed concurrently")
	ErrNotFound          = errors.New("order not found")
)

type Service struct {
	db     *gorm.DB
	engine *pricing.Engine
	loc    *time.Location
	now    func() time.Time
}

// NewService wires the order service. now may be nil, in which case the wall
// clock is used.
func NewService(db *gorm.DB, engine *pricing.Engine, loc *time.Location, now func() time.Time) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{db: db, engine: engine, loc: loc, now: now}
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Confirm prices the cart and stores the order header, its number and its
// lines in one transaction. The caller clears the session cart on success.
func (s *Service) Confirm(ctx context.Context, c cart.Cart, code string, userID uint) (*models.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	q, err := s.engine.Quote(ctx, c, code)
	if err != nil {
		return nil, err
	}
	if len(q.Lines) == 0 {
		return nil, ErrNothingToOrder
	}

	discount := q.Discount.Round(2)
	now := s.clock()

	order := models.Order{
		Subtotal:  q.Subtotal,
		Discount:  discount,
		Total:     q.Subtotal.Sub(discount),
		Status:    models.OrderPending,
		CreatedAt: now,
		Lines:     make([]models.OrderLine, 0, len(q.Lines)),
	}
	if q.Code != nil {
		order.DiscountCode = q.Code.Code
	}
	if userID != 0 {
		order.CreatedByID = &userID
	}
	for _, l := range q.Lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx, now)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order %s: %w", number, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetStatus moves an order one step forward. Entering ready records the
// preparation time once; a second writer racing on the same order gets
// ErrStaleStatus.
func (s *Service) SetStatus(ctx context.Context, id uint, to models.OrderStatus) (*models.Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, to)
	}

	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}

	fields := map[string]any{"status": to}
	if to == models.OrderReady && o.PrepSeconds == nil {
		secs := int(s.clock().Sub(o.CreatedAt) / time.Second)
		if secs < 0 {
			secs = 0
		}
		fields["prep_seconds"] = secs
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, o.Status).
		Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleStatus
	}
	return s.Get(ctx, id)
}

// Get loads an order with its lines.
func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}

// Active lists every order that has not been delivered, oldest first.
func (s *Service) Active(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("status <> ?", models.OrderDelivered).
		Order("created_at asc, id asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	return list, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []models.Order
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	return list, nil
}

type Stats struct {
	OrderCount     int64           `json:"order_count"`
	Revenue        decimal.Decimal `json:"revenue"`
	AvgPrepSeconds float64         `json:"avg_prep_seconds"`
	// InProgress counts today's orders currently being prepared.
	InProgress int64 `json:"in_progress"`
}

// AvgPrepMinutes rounds the average preparation time for display.
func (st Stats) AvgPrepMinutes() int {
	return int(st.AvgPrepSeconds/60 + 0.5)
}

// TodayStats aggregates the orders created today in the business time zone.
func (s *Service) TodayStats(ctx context.Context) (Stats, error) {
	start, end := DayBounds(s.clock())

	var row struct {
		OrderCount int64
		Revenue    decimal.Decimal
		AvgPrep    sql.NullFloat64
		InProgress int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select(`COUNT(*) AS order_count,
			COALESCE(SUM(total), 0) AS revenue,
			AVG(prep_seconds) AS avg_prep,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress`, models.OrderPreparing).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return Stats{}, fmt.Errorf("today stats: %w", err)
	}

	return Stats{
		OrderCount:     row.OrderCount,
		Revenue:        row.Revenue,
		AvgPrepSeconds: row.AvgPrep.Float64,
		InProgress:     row.InProgress,
	}, nil
}

// DayBounds returns [00:00, next 00:00) of t's day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
