// Package analytics holds the dashboard computations as pure functions of the loaded tables.
package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

// TotalOrders is the "Total Orders" widget. Size mode multiplies rows by columns
// (the historical figure); rows mode counts rows.
func TotalOrders(shape models.Shape, mode string) int {
	if mode == models.ModeRows {
		return shape.Rows
	}
	return shape.Size()
}

// TotalIncome is the exact sum of payment_value. Missing amounts are skipped.
func TotalIncome(payments []models.OrderPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.PaymentValue.Valid {
			total = total.Add(p.PaymentValue.Decimal)
		}
	}
	return total
}

// OrdersInYear counts orders approved during year. Orders without an approval
// timestamp are skipped.
func OrdersInYear(orders []models.Order, year int) int {
	n := 0
	for _, o := range orders {
		if o.ApprovedAt != nil && o.ApprovedAt.Year() == year {
			n++
		}
	}
	return n
}

// Growth returns (dec-jan)/jan*100. ok is false when jan is zero.
func Growth(jan, dec int) (pct float64, ok bool) {
	if jan == 0 {
		return 0, false
	}
	return float64(dec-jan) / float64(jan) * 100, true
}

// FormatMoney renders an amount as $1,234.56.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), frac)
}

// FormatGrowth renders a growth percentage, or n/a when it is undefined.
func FormatGrowth(pct *float64) string {
	if pct == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *pct)
}

// Summarize computes the metric widgets of the dashboard header and growth section.
func Summarize(ds *models.Dataset, year int, mode string, monthly []models.MonthlyOrderCount) models.Summary {
	income := TotalIncome(ds.Payments.Rows)
	inYear := OrdersInYear(ds.Orders.Rows, year)
	yearShape := models.Shape{Rows: inYear, Columns: ds.Orders.Shape.Columns}

	s := models.Summary{
		TotalOrders:        TotalOrders(ds.Payments.Shape, mode),
		TotalOrdersMode:    mode,
		PaymentRows:        ds.Payments.Shape.Rows,
		PaymentColumns:     ds.Payments.Shape.Columns,
		TotalIncome:        income,
		TotalIncomeDisplay: FormatMoney(income),
		Year:               year,
		OrdersInYear:       TotalOrders(yearShape, mode),
		OrdersInYearRows:   inYear,
	}
	if len(monthly) == 12 {
		s.JanuaryOrders = monthly[0].Count
		s.DecemberOrders = monthly[11].Count
	}
	if pct, ok := Growth(s.JanuaryOrders, s.DecemberOrders); ok {
		s.GrowthPercent = &pct
	}
	s.GrowthDisplay = FormatGrowth(s.GrowthPercent)
	return s
}
