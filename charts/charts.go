// Package charts renders the dashboard panels as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"ecomdash/api/models"
)

// Chart IDs, in page order.
const (
	Income        = "income"
	OrdersByMonth = "orders-by-month"
	Frequency     = "frequency"
	Recency       = "recency"
	Monetary      = "monetary"
	Segments      = "segments"
)

var IDs = []string{Income, OrdersByMonth, Frequency, Recency, Monetary, Segments}

var ErrUnknownChart = errors.New("unknown chart")

// Render draws chart id for report.
func Render(id string, r *models.Report) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)
	switch id {
	case Income:
		err = IncomeLine(&buf, r.MonthlyIncome)
	case OrdersByMonth:
		err = OrdersBar(&buf, r.MonthlyOrders, r.Summary.Year)
	case Frequency:
		err = HistogramChart(&buf, "User Buying Frequency Distribution", "Frequency", r.Frequency.Bins)
	case Recency:
		err = HistogramChart(&buf, "User Buying Recency Distribution", "Recency (Days)", r.Recency.Bins)
	case Monetary:
		err = HistogramChart(&buf, "User Total Spending Distribution", "Monetary (Total Spending in USD)", r.Monetary.Bins)
	case Segments:
		err = SegmentsBar(&buf, r.Segments)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", id, err)
	}
	return buf.Bytes(), nil
}
