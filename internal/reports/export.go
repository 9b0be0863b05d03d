package reports

import (
	"bytes"
	"context"
	"fmt"

	"restoran-pos/internal/orders"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report kinds accepted by Export.
const (
	KindSalesDay    = "sales-day"
	KindSalesRange  = "sales-range"
	KindTopProducts = "top-products"
	KindCategories  = "categories"
)

// Query carries the raw request parameters of a report.
type Query struct {
	Date      string
	StartDate string
	EndDate   string
	Limit     int
}

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// Export runs the report of the given kind and renders it as an XLSX
// workbook. It returns the suggested file name and the file contents.
func (s *Service) Export(ctx context.Context, kind string, q Query) (string, []byte, error) {
	var (
		name   string
		sheets []sheet
	)

	switch kind {
	case KindSalesDay:
		day, err := s.ParseDay(q.Date)
		if err != nil {
			return "", nil, err
		}
		r, err := s.SalesDay(ctx, day)
		if err != nil {
			return "", nil, err
		}
		name = "sales-" + r.Date
		sheets = daySheets(r)

	case KindSalesRange:
		p, err := s.ParsePeriod(q.StartDate, q.EndDate, true)
		if err != nil {
			return "", nil, err
		}
		r, err := s.SalesRange(ctx, p)
		if err != nil {
			return "", nil, err
		}
		name = fmt.Sprintf("sales-%s-to-%s", r.Start, r.End)
		sheets = rangeSheets(r)

	case KindTopProducts:
		p, err := s.ParsePeriod(q.StartDate, q.EndDate, false)
		if err != nil {
			return "", nil, err
		}
		list, err := s.TopProducts(ctx, p, q.Limit)
		if err != nil {
			return "", nil, err
		}
		name = "top-products"
		sh := sheet{name: "Top products", header: []string{"Product ID", "Product", "Units", "Revenue", "Orders", "Average price"}}
		for _, ps := range list {
			sh.rows = append(sh.rows, []any{ps.ProductID, ps.ProductName, ps.Units, money(ps.Revenue), ps.Orders, money(ps.AvgPrice)})
		}
		sheets = []sheet{sh}

	case KindCategories:
		p, err := s.ParsePeriod(q.StartDate, q.EndDate, false)
		if err != nil {
			return "", nil, err
		}
		list, err := s.Categories(ctx, p)
		if err != nil {
			return "", nil, err
		}
		name = "categories"
		sh := sheet{name: "Categories", header: []string{"Category", "Orders", "Units", "Revenue"}}
		for _, cs := range list {
			sh.rows = append(sh.rows, []any{cs.Category, cs.Orders, cs.Units, money(cs.Revenue)})
		}
		sheets = []sheet{sh}

	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}

	body, err := writeWorkbook(sheets)
	if err != nil {
		return "", nil, err
	}
	return name + ".xlsx", body, nil
}

func summaryRows(sm Summary) [][]any {
	return [][]any{
		{"Orders", sm.OrderCount},
		{"Sales", money(sm.Sales)},
		{"Discounts", money(sm.Discounts)},
		{"Subtotal", money(sm.Subtotal)},
		{"Average ticket", money(sm.AvgTicket)},
		{"Average preparation (min)", int(sm.AvgPrepSeconds/60 + 0.5)},
	}
}

func daySheets(r DayReport) []sheet {
	summary := sheet{name: "Summary", header: []string{"Date", r.Date}, rows: summaryRows(r.Summary)}
	for _, sc := range r.ByStatus {
		summary.rows = append(summary.rows, []any{orders.StatusLabel(sc.Status), sc.Count})
	}

	detail := sheet{name: "Orders", header: []string{"Order", "Time", "Status", "Subtotal", "Discount", "Total", "Code", "Preparation (min)"}}
	for _, o := range r.Orders {
		detail.rows = append(detail.rows, []any{
			o.OrderNumber,
			o.CreatedAt.Format("15:04"),
			orders.StatusLabel(o.Status),
			money(o.Subtotal),
			money(o.Discount),
			money(o.Total),
			o.DiscountCode,
			o.PrepMinutes(),
		})
	}
	return []sheet{summary, detail}
}

func rangeSheets(r RangeReport) []sheet {
	summary := sheet{name: "Summary", header: []string{"Period", r.Start + " - " + r.End}, rows: summaryRows(r.Summary)}
	daily := sheet{name: "Daily sales", header: []string{"Date", "Orders", "Sales"}}
	for _, d := range r.Daily {
		daily.rows = append(daily.rows, []any{d.Date, d.Orders, money(d.Sales)})
	}
	return []sheet{summary, daily}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func writeWorkbook(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, fmt.Errorf("xlsx sheet %s: %w", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("xlsx sheet %s: %w", sh.name, err)
		}

		header := make([]any, len(sh.header))
		for j, h := range sh.header {
			header[j] = h
		}
		if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return nil, fmt.Errorf("xlsx header %s: %w", sh.name, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(sh.header), 1)
		if err := f.SetCellStyle(sh.name, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("xlsx header style %s: %w", sh.name, err)
		}

		for r, row := range sh.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return nil, fmt.Errorf("xlsx row %s: %w", sh.name, err)
			}
		}

		lastCol, _ := excelize.ColumnNumberToName(len(sh.header))
		if err := f.SetColWidth(sh.name, "A", lastCol, 18); err != nil {
			return nil, fmt.Errorf("xlsx width %s: %w", sh.name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
