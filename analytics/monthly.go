package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

// MonthLabels are the short month names used on the monthly order axis.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var thousand = decimal.NewFromInt(1000)

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthsBetweenInclusive(start, end time.Time) []time.Time {
	cur := monthStart(start)
	last := monthStart(end)
	var out []time.Time
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// MonthlyIncome sums payment_value per calendar month, from the first to the last
// month with an approved payment. Months without payments are present with zero income.
func MonthlyIncome(payments []models.OrderPayment) []models.MonthlyIncome {
	sums := make(map[time.Time]decimal.Decimal)
	var first, last time.Time
	for _, p := range payments {
		if p.ApprovedAt == nil {
			continue
		}
		m := monthStart(*p.ApprovedAt)
		// A missing amount still opens its month.
		amount := decimal.Zero
		if p.PaymentValue.Valid {
			amount = p.PaymentValue.Decimal
		}
		sums[m] = sums[m].Add(amount)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}
	if len(sums) == 0 {
		return nil
	}

	months := monthsBetweenInclusive(first, last)
	out := make([]models.MonthlyIncome, 0, len(months))
	for _, m := range months {
		income := sums[m]
		out = append(out, models.MonthlyIncome{
			Month:           m,
			Label:           m.Format("2006-01"),
			Income:          income,
			IncomeThousands: income.Div(thousand).InexactFloat64(),
		})
	}
	return out
}

// MonthlyOrderCounts counts the orders of year per month. All twelve months are
// returned, zero-filled.
func MonthlyOrderCounts(orders []models.Order, year int) []models.MonthlyOrderCount {
	out := make([]models.MonthlyOrderCount, 12)
	for i := range out {
		out[i] = models.MonthlyOrderCount{Month: i + 1, Label: MonthLabels[i]}
	}
	for _, o := range orders {
		if o.ApprovedAt == nil || o.ApprovedAt.Year() != year {
			continue
		}
		out[o.ApprovedAt.Month()-1].Count++
	}
	return out
}
