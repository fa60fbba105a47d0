package charts

import (
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"ecomdash/api/models"
)

// IncomeLine draws monthly income in thousands over time.
func IncomeLine(w io.Writer, rows []models.MonthlyIncome) error {
	if len(rows) == 0 {
		return emptyPlot(w, "Income Over Time", "Time", "Income (Thousand)")
	}

	xs := make([]time.Time, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Month
		ys[i] = r.IncomeThousands
	}
	// A single point has no x range; extend it by one month.
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 1, 0))
		ys = append(ys, ys[0])
	}

	lo, hi := 0.0, 0.0
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	hi *= 1.1
	if hi <= lo {
		hi = lo + 1
	}

	ch := chart.Chart{
		Title:      "Income Over Time",
		Width:      800,
		Height:     400,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Name:  "Income (Thousand)",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Income",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	return ch.Render(chart.PNG, w)
}
