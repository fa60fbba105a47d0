package charts

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecomdash/api/analytics"
	"ecomdash/api/models"
)

func sampleReport() *models.Report {
	freq := []float64{1, 1, 1, 2, 3, 1, 1, 5}
	return &models.Report{
		Summary: models.Summary{Year: 2017},
		MonthlyIncome: []models.MonthlyIncome{
			{Month: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), Income: decimal.NewFromInt(300), IncomeThousands: 0.3},
			{Month: time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC), Income: decimal.NewFromInt(50), IncomeThousands: 0.05},
		},
		MonthlyOrders: analytics.MonthlyOrderCounts(nil, 2017),
		Frequency:     analytics.NewDistribution("frequency", freq, 30, 1),
		Recency:       analytics.NewDistribution("recency", []float64{10, 200, 30}, 20, 1),
		Monetary:      analytics.NewDistribution("monetary", []float64{10.5, 99.9}, 20, 100),
		Segments: []models.SegmentCount{
			{Segment: "hibernating", Count: 5},
			{Segment: "new customers", Count: 2},
		},
	}
}

func TestRenderEveryChartProducesPNG(t *testing.T) {
	r := sampleReport()
	for _, id := range IDs {
		img, err := Render(id, r)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", id, err)
		}
		if _, err := png.Decode(bytes.NewReader(img)); err != nil {
			t.Fatalf("%s: output is not a PNG: %v", id, err)
		}
	}
}

func TestRenderEmptyReport(t *testing.T) {
	r := &models.Report{Summary: models.Summary{Year: 2017}}
	for _, id := range IDs {
		if _, err := Render(id, r); err != nil {
			t.Fatalf("%s: empty report should still render, got %v", id, err)
		}
	}
}

func TestIncomeLineSinglePoint(t *testing.T) {
	var buf bytes.Buffer
	rows := []models.MonthlyIncome{{Month: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), IncomeThousands: 1.5}}
	if err := IncomeLine(&buf, rows); err != nil {
		t.Fatalf("single point should render, got %v", err)
	}
}

func TestRenderUnknownChart(t *testing.T) {
	_, err := Render("pie", sampleReport())
	if !errors.Is(err, ErrUnknownChart) {
		t.Fatalf("expected ErrUnknownChart, got %v", err)
	}
}
