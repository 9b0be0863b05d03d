package orders

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const dayLayout = "20060102"

// nextOrderNumber bumps the counter row for the day of now and formats the
// result as P<YYYYMMDD>-<NNNN>. It must run inside the confirm transaction so
// an aborted confirmation also gives its number back.
func nextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format(dayLayout)

	var n int
	err := tx.Raw(`INSERT INTO order_counters (day, last_value) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET last_value = order_counters.last_value + 1
		RETURNING last_value`, day).Scan(&n).Error
	if err != nil {
		return "", fmt.Errorf("next order number for %s: %w", day, err)
	}
	if n == 0 {
		return "", fmt.Errorf("next order number for %s: counter returned no value", day)
	}
	return fmt.Sprintf("P%s-%04d", day, n), nil
}
