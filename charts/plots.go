package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"ecomdash/api/models"
)

var (
	barColor       = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	histogramColor = color.RGBA{R: 88, G: 160, B: 220, A: 255}
	segmentColor   = color.RGBA{R: 219, G: 94, B: 86, A: 255}
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func save(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func emptyPlot(w io.Writer, title, xLabel, yLabel string) error {
	p := newPlot(title+" (no data)", xLabel, yLabel)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return save(w, p, 8*vg.Inch, 4*vg.Inch)
}

func barChart(w io.Writer, p *plot.Plot, values plotter.Values, labels []string, c color.Color, width, height vg.Length) error {
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.Y.Min = 0
	return save(w, p, width, height)
}

// OrdersBar draws the twelve monthly order counts of year.
func OrdersBar(w io.Writer, rows []models.MonthlyOrderCount, year int) error {
	title := fmt.Sprintf("Orders in %d", year)
	if len(rows) == 0 {
		return emptyPlot(w, title, "Month of the year", "Order Count")
	}
	p := newPlot(title, "Month of the year", "Order Count")
	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = float64(r.Count)
		labels[i] = r.Label
	}
	return barChart(w, p, values, labels, barColor, 8*vg.Inch, 4*vg.Inch)
}

// SegmentsBar draws the customer count per RFM segment.
func SegmentsBar(w io.Writer, rows []models.SegmentCount) error {
	if len(rows) == 0 {
		return emptyPlot(w, "User Segmentation", "RFM Segment", "User Count")
	}
	p := newPlot("User Segmentation", "RFM Segment", "User Count")
	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = float64(r.Count)
		labels[i] = r.Segment
	}
	if len(rows) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return barChart(w, p, values, labels, segmentColor, 12*vg.Inch, 5*vg.Inch)
}

// HistogramChart draws precomputed bins so the image matches the API output.
func HistogramChart(w io.Writer, title, xLabel string, bins []models.HistogramBin) error {
	if len(bins) == 0 {
		return emptyPlot(w, title, xLabel, "User Count")
	}
	p := newPlot(title, xLabel, "User Count")
	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	h := &plotter.Histogram{
		Bins:      hb,
		Width:     bins[0].Max - bins[0].Min,
		FillColor: histogramColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(h)
	p.Y.Min = 0
	return save(w, p, 8*vg.Inch, 4*vg.Inch)
}
