package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"restoran-pos/internal/models"
	"restoran-pos/internal/orders"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templatesFS embed.FS

// NewViews builds the template engine over the embedded templates.
func NewViews(loc *time.Location) *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")

	engine.AddFunc("money", func(d decimal.Decimal) string {
		return "Q" + d.StringFixed(2)
	})
	engine.AddFunc("formatTime", func(t time.Time) string {
		return t.In(loc).Format("02/01/2006 15:04")
	})
	engine.AddFunc("clock", func(t time.Time) string {
		return t.In(loc).Format("15:04")
	})
	engine.AddFunc("statusLabel", func(s models.OrderStatus) string {
		return orders.StatusLabel(s)
	})
	engine.AddFunc("minutes", func(secs float64) int {
		return int(secs/60 + 0.5)
	})
	engine.AddFunc("discountValue", func(dc models.DiscountCode) string {
		if dc.Kind == models.DiscountPercentage {
			return dc.Value.String() + "%"
		}
		return "Q" + dc.Value.StringFixed(2)
	})
	engine.AddFunc("printURL", func(id uint) string {
		return fmt.Sprintf("/?action=print&order_id=%d", id)
	})
	return engine
}
