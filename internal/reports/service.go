// Package reports aggregates confirmed orders into sales reports and exports
// them as spreadsheets.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restoran-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidRange  = errors.New("start_date must not be after end_date")
	ErrUnknownReport = errors.New("unknown report")
)

type Service struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewService(db *gorm.DB, loc *time.Location, now func() time.Time) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{db: db, loc: loc, now: now}
}

type Summary struct {
	OrderCount     int64           `json:"order_count"`
	Sales          decimal.Decimal `json:"sales"`
	Discounts      decimal.Decimal `json:"discounts"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	AvgTicket      decimal.Decimal `json:"avg_ticket"`
	AvgPrepSeconds float64         `json:"avg_prep_seconds"`
}

type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type DayReport struct {
	Date     string         `json:"date"`
	Summary  Summary        `json:"summary"`
	ByStatus []StatusCount  `json:"status_breakdown"`
	Orders   []models.Order `json:"orders"`
}

type DailySales struct {
	Date   string          `json:"date"`
	Orders int64           `json:"orders"`
	Sales  decimal.Decimal `json:"sales"`
}

type RangeReport struct {
	Start   string       `json:"start_date"`
	End     string       `json:"end_date"`
	Summary Summary      `json:"summary"`
	Daily   []DailySales `json:"daily_sales"`
}

type ProductSales struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Units       int64           `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
	Orders      int64           `json:"orders"`
	AvgPrice    decimal.Decimal `json:"avg_price"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Orders   int64           `json:"orders"`
	Units    int64           `json:"units"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Period is a half-open interval of business days. A zero bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) apply(q *gorm.DB, column string) *gorm.DB {
	if !p.From.IsZero() {
		q = q.Where(column+" >= ?", p.From)
	}
	if !p.To.IsZero() {
		q = q.Where(column+" < ?", p.To)
	}
	return q
}

// ParseDay parses a YYYY-MM-DD date in the business time zone. An empty
// string means today.
func (s *Service) ParseDay(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		n := s.now().In(s.loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc), nil
	}
	d, err := time.ParseInLocation(dateLayout, v, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ParsePeriod builds a Period from inclusive start and end dates; either may
// be empty when required is false.
func (s *Service) ParsePeriod(start, end string, required bool) (Period, error) {
	var p Period
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if required && (start == "" || end == "") {
		return p, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidDate)
	}
	if start != "" {
		d, err := s.ParseDay(start)
		if err != nil {
			return p, err
		}
		p.From = d
	}
	if end != "" {
		d, err := s.ParseDay(end)
		if err != nil {
			return p, err
		}
		p.To = d.AddDate(0, 0, 1)
	}
	if !p.From.IsZero() && !p.To.IsZero() && !p.From.Before(p.To) {
		return p, ErrInvalidRange
	}
	return p, nil
}

func (s *Service) summary(ctx context.Context, p Period) (Summary, error) {
	var row struct {
		OrderCount int64
		Sales      decimal.Decimal
		Discounts  decimal.Decimal
		Subtotal   decimal.Decimal
		AvgTicket  decimal.Decimal
		AvgPrep    sql.NullFloat64
	}
	q := s.db.WithContext(ctx).Model(&models.Order{}).
		Select(`COUNT(*) AS order_count,
			COALESCE(SUM(total), 0) AS sales,
			COALESCE(SUM(discount), 0) AS discounts,
			COALESCE(SUM(subtotal), 0) AS subtotal,
			COALESCE(AVG(total), 0) AS avg_ticket,
			AVG(prep_seconds) AS avg_prep`)
	if err := p.apply(q, "created_at").Scan(&row).Error; err != nil {
		return Summary{}, fmt.Errorf("sales summary: %w", err)
	}
	return Summary{
		OrderCount:     row.OrderCount,
		Sales:          row.Sales,
		Discounts:      row.Discounts,
		Subtotal:       row.Subtotal,
		AvgTicket:      row.AvgTicket.Round(2),
		AvgPrepSeconds: row.AvgPrep.Float64,
	}, nil
}

// SalesDay reports one business day.
func (s *Service) SalesDay(ctx context.Context, day time.Time) (DayReport, error) {
	p := Period{From: day, To: day.AddDate(0, 0, 1)}
	r := DayReport{Date: day.Format(dateLayout)}

	var err error
	if r.Summary, err = s.summary(ctx, p); err != nil {
		return DayReport{}, err
	}

	q := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status asc")
	if err := p.apply(q, "created_at").Scan(&r.ByStatus).Error; err != nil {
		return DayReport{}, fmt.Errorf("status breakdown: %w", err)
	}

	q = s.db.WithContext(ctx).Order("created_at desc, id desc")
	if err := p.apply(q, "created_at").Find(&r.Orders).Error; err != nil {
		return DayReport{}, fmt.Errorf("orders of %s: %w", r.Date, err)
	}
	return r, nil
}

// SalesRange reports a period with one row per business day that had orders.
func (s *Service) SalesRange(ctx context.Context, p Period) (RangeReport, error) {
	r := RangeReport{
		Start: p.From.Format(dateLayout),
		End:   p.To.AddDate(0, 0, -1).Format(dateLayout),
	}

	var err error
	if r.Summary, err = s.summary(ctx, p); err != nil {
		return RangeReport{}, err
	}

	// Days are bucketed here rather than with DATE() so the business time
	// zone applies on every database.
	var rows []struct {
		CreatedAt time.Time
		Total     decimal.Decimal
	}
	q := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("created_at, total").
		Order("created_at asc")
	if err := p.apply(q, "created_at").Scan(&rows).Error; err != nil {
		return RangeReport{}, fmt.Errorf("daily sales: %w", err)
	}

	index := map[string]int{}
	for _, row := range rows {
		day := row.CreatedAt.In(s.loc).Format(dateLayout)
		i, ok := index[day]
		if !ok {
			i = len(r.Daily)
			index[day] = i
			r.Daily = append(r.Daily, DailySales{Date: day, Sales: decimal.Zero})
		}
		r.Daily[i].Orders++
		r.Daily[i].Sales = r.Daily[i].Sales.Add(row.Total)
	}
	return r, nil
}

// TopProducts ranks order lines by units sold.
func (s *Service) TopProducts(ctx context.Context, p Period, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []ProductSales
	q := s.db.WithContext(ctx).Table("order_lines AS ol").
		Select(`ol.product_id,
			ol.product_name,
			SUM(ol.quantity) AS units,
			SUM(ol.unit_price * ol.quantity) AS revenue,
			COUNT(DISTINCT ol.order_id) AS orders,
			AVG(ol.unit_price) AS avg_price`).
		Joins("JOIN orders AS o ON o.id = ol.order_id").
		Group("ol.product_id, ol.product_name").
		Order("units desc, revenue desc").
		Limit(limit)
	if err := p.apply(q, "o.created_at").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	for i := range out {
		out[i].AvgPrice = out[i].AvgPrice.Round(2)
	}
	return out, nil
}

// Categories groups sales by the current category of each product.
func (s *Service) Categories(ctx context.Context, p Period) ([]CategorySales, error) {
	var out []CategorySales
	q := s.db.WithContext(ctx).Table("order_lines AS ol").
		Select(`p.category,
			COUNT(DISTINCT ol.order_id) AS orders,
			SUM(ol.quantity) AS units,
			SUM(ol.unit_price * ol.quantity) AS revenue`).
		Joins("JOIN orders AS o ON o.id = ol.order_id").
		Joins("JOIN products AS p ON p.id = ol.product_id").
		Group("p.category").
		Order("revenue desc")
	if err := p.apply(q, "o.created_at").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("category sales: %w", err)
	}
	return out, nil
}
