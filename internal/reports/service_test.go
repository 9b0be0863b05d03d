package reports_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"restoran-pos/internal/cart"
	"restoran-pos/internal/catalog"
	"restoran-pos/internal/database/dbtest"
	"restoran-pos/internal/discount"
	"restoran-pos/internal/models"
	"restoran-pos/internal/orders"
	"restoran-pos/internal/pricing"
	"restoran-pos/internal/reports"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// seed creates three orders: two on 2026-10-18, one on 2026-10-19.
func seed(t *testing.T) *reports.Service {
	t.Helper()
	db := dbtest.Open(t)
	ctx := context.Background()

	for _, p := range []models.Product{
		{ID: 1, Name: "Pepián", Price: decimal.RequireFromString("45.00"), Category: "Platos", Active: true},
		{ID: 2, Name: "Horchata", Price: decimal.RequireFromString("12.00"), Category: "Bebidas", Active: true},
	} {
		if err := db.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
	}
	ds := discount.NewStore(db)
	if _, err := ds.Create(ctx, discount.Input{Code: "FIJO15", Kind: models.DiscountFixed, Value: decimal.NewFromInt(15)}); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := orders.NewService(db, pricing.NewEngine(catalog.NewStore(db), ds), time.UTC, clock)

	if _, err := svc.Confirm(ctx, cart.Cart{1, 1, 2}, "", 1); err != nil { // 102
		t.Fatal(err)
	}
	now = now.Add(time.Hour)
	if _, err := svc.Confirm(ctx, cart.Cart{2}, "FIJO15", 1); err != nil { // 12 - 12
		t.Fatal(err)
	}
	now = now.Add(24 * time.Hour)
	o, err := svc.Confirm(ctx, cart.Cart{1}, "", 1) // 45
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStatus(ctx, o.ID, models.OrderPreparing); err != nil {
		t.Fatal(err)
	}

	return reports.NewService(db, time.UTC, func() time.Time { return now })
}

func TestSalesDay(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	day, err := svc.ParseDay("2026-10-18")
	if err != nil {
		t.Fatal(err)
	}
	r, err := svc.SalesDay(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	if r.Summary.OrderCount != 2 || !r.Summary.Sales.Equal(decimal.NewFromInt(102)) || !r.Summary.Discounts.Equal(decimal.NewFromInt(12)) {
		t.Errorf("summary = %+v", r.Summary)
	}
	if !r.Summary.AvgTicket.Equal(decimal.NewFromInt(51)) {
		t.Errorf("avg ticket = %s, want 51", r.Summary.AvgTicket)
	}
	if len(r.Orders) != 2 || r.Orders[0].OrderNumber != "P20261018-0002" {
		t.Errorf("orders = %+v", r.Orders)
	}
	if len(r.ByStatus) != 1 || r.ByStatus[0].Status != models.OrderPending || r.ByStatus[0].Count != 2 {
		t.Errorf("by status = %+v", r.ByStatus)
	}

	today, _ := svc.ParseDay("")
	if today.Format("2006-01-02") != "2026-10-19" {
		t.Errorf("today = %s", today)
	}
}

func TestSalesRangeAndRankings(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	p, err := svc.ParsePeriod("2026-10-18", "2026-10-19", true)
	if err != nil {
		t.Fatal(err)
	}
	r, err := svc.SalesRange(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if r.Summary.OrderCount != 3 || len(r.Daily) != 2 {
		t.Fatalf("range = %+v", r)
	}
	if r.Daily[0].Date != "2026-10-18" || r.Daily[0].Orders != 2 || !r.Daily[1].Sales.Equal(decimal.NewFromInt(45)) {
		t.Errorf("daily = %+v", r.Daily)
	}

	top, err := svc.TopProducts(ctx, reports.Period{}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].ProductName != "Pepián" || top[0].Units != 3 || top[0].Orders != 2 {
		t.Errorf("top = %+v", top)
	}
	if !top[0].Revenue.Equal(decimal.NewFromInt(135)) {
		t.Errorf("revenue = %s, want 135", top[0].Revenue)
	}

	cats, err := svc.Categories(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Category != "Platos" || cats[1].Units != 2 {
		t.Errorf("categories = %+v", cats)
	}
}

func TestParsePeriod(t *testing.T) {
	svc := reports.NewService(nil, time.UTC, nil)

	tests := []struct {
		name       string
		start, end string
		required   bool
		want       error
	}{
		{name: "open", required: false},
		{name: "missing when required", start: "2026-10-01", required: true, want: reports.ErrInvalidDate},
		{name: "bad format", start: "01/10/2026", end: "2026-10-02", want: reports.ErrInvalidDate},
		{name: "reversed", start: "2026-10-05", end: "2026-10-01", want: reports.ErrInvalidRange},
		{name: "same day", start: "2026-10-05", end: "2026-10-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParsePeriod(tt.start, tt.end, tt.required)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	name, body, err := svc.Export(ctx, reports.KindSalesDay, reports.Query{Date: "2026-10-18"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "sales-2026-10-18.xlsx" {
		t.Errorf("name = %s", name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Summary" || got[1] != "Orders" {
		t.Errorf("sheets = %v", got)
	}
	v, err := f.GetCellValue("Orders", "A2")
	if err != nil || v != "P20261018-0002" {
		t.Errorf("Orders!A2 = %q, %v", v, err)
	}

	if _, _, err := svc.Export(ctx, "pdf", reports.Query{}); !errors.Is(err, reports.ErrUnknownReport) {
		t.Errorf("unknown kind err = %v", err)
	}
	if _, _, err := svc.Export(ctx, reports.KindSalesRange, reports.Query{}); !errors.Is(err, reports.ErrInvalidDate) {
		t.Errorf("range without dates err = %v", err)
	}
}
