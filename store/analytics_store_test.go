package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

type fakeSource struct {
	ds  *models.Dataset
	err error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(context.Context) (*models.Dataset, error) {
	return f.ds, f.err
}

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func fixtureDataset(id string) *models.Dataset {
	return &models.Dataset{
		SnapshotID: id,
		Source:     "fake",
		Payments: models.PaymentsTable{
			Shape: models.Shape{Rows: 3, Columns: 2},
			Rows: []models.OrderPayment{
				{ApprovedAt: at(2017, 1, 2), PaymentValue: decimal.NewNullDecimal(decimal.RequireFromString("100"))},
				{ApprovedAt: at(2017, 1, 20), PaymentValue: decimal.NewNullDecimal(decimal.RequireFromString("200"))},
				{ApprovedAt: at(2017, 2, 1), PaymentValue: decimal.NewNullDecimal(decimal.RequireFromString("50"))},
			},
		},
		Orders: models.OrdersTable{
			Shape: models.Shape{Rows: 3, Columns: 2},
			Rows: []models.Order{
				{ApprovedAt: at(2017, 1, 2)},
				{ApprovedAt: at(2017, 12, 2)},
				{ApprovedAt: at(2017, 12, 3)},
			},
		},
		Customers: models.CustomersTable{
			Shape: models.Shape{Rows: 5, Columns: 5},
			Rows: []models.CustomerRFM{
				{Frequency: 1, Recency: 10, Monetary: decimal.NewFromInt(10), Segment: "A"},
				{Frequency: 1, Recency: 20, Monetary: decimal.NewFromInt(20), Segment: "A"},
				{Frequency: 2, Recency: 30, Monetary: decimal.NewFromInt(30), Segment: "B"},
				{Frequency: 1, Recency: 40, Monetary: decimal.NewFromInt(40), Segment: "A"},
				{Frequency: 3, Recency: 50, Monetary: decimal.NewFromInt(50), Segment: "C"},
			},
		},
	}
}

func testOptions() Options {
	return Options{Year: 2017, TotalOrdersMode: models.ModeSize, FrequencyBins: 30, RecencyBins: 20, MonetaryBins: 20}
}

func TestStoreBeforeLoad(t *testing.T) {
	s := NewAnalyticsStore(&fakeSource{err: errors.New("boom")}, testOptions())
	if _, err := s.Report(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := s.Chart("income"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if s.LastError() == nil {
		t.Fatal("last error not recorded")
	}
}

func TestStoreReloadBuildsReport(t *testing.T) {
	src := &fakeSource{ds: fixtureDataset("one")}
	s := NewAnalyticsStore(src, testOptions())
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := s.Report()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary.TotalOrders != 6 || r.Summary.TotalIncomeDisplay != "$350.00" {
		t.Fatalf("summary %+v", r.Summary)
	}
	if r.Summary.GrowthPercent == nil || *r.Summary.GrowthPercent != 100 {
		t.Fatalf("growth %v", r.Summary.GrowthPercent)
	}
	if len(r.MonthlyIncome) != 2 || r.MonthlyIncome[0].Income.String() != "300" {
		t.Fatalf("monthly income %+v", r.MonthlyIncome)
	}
	if len(r.Segments) != 3 || r.Segments[0].Segment != "A" || r.Segments[0].Count != 3 {
		t.Fatalf("segments %+v", r.Segments)
	}
	if len(r.Frequency.Bins) != 30 || len(r.Recency.Bins) != 20 || len(r.Monetary.Bins) != 20 {
		t.Fatalf("bin counts %d %d %d", len(r.Frequency.Bins), len(r.Recency.Bins), len(r.Monetary.Bins))
	}
	if r.OneTimeShare != 0.6 || r.Narrative.Segments == "" {
		t.Fatalf("one-time share %v narrative %q", r.OneTimeShare, r.Narrative.Segments)
	}
}

func TestStoreKeepsPreviousSnapshotOnFailure(t *testing.T) {
	src := &fakeSource{ds: fixtureDataset("one")}
	s := NewAnalyticsStore(src, testOptions())
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.ds, src.err = nil, errors.New("file vanished")
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	r, err := s.Report()
	if err != nil || r.SnapshotID != "one" {
		t.Fatalf("previous snapshot not served: %v %v", r, err)
	}
	if s.LastError() == nil {
		t.Fatal("last error not recorded")
	}

	src.ds, src.err = fixtureDataset("two"), nil
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r, _ := s.Report(); r.SnapshotID != "two" || s.LastError() != nil {
		t.Fatalf("reload did not swap snapshot: %v", r.SnapshotID)
	}
}

func TestStoreChartCaching(t *testing.T) {
	s := NewAnalyticsStore(&fakeSource{ds: fixtureDataset("one")}, testOptions())
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := s.Chart("segments")
	if err != nil || len(first) == 0 {
		t.Fatalf("chart: %v", err)
	}
	second, _ := s.Chart("segments")
	if &first[0] != &second[0] {
		t.Fatal("chart was rendered twice for the same snapshot")
	}
	if _, err := s.Chart("pie"); err == nil {
		t.Fatal("expected error for unknown chart")
	}
}

func TestStoreDistribution(t *testing.T) {
	s := NewAnalyticsStore(&fakeSource{ds: fixtureDataset("one")}, testOptions())
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := s.Distribution("recency", 0)
	if err != nil || len(d.Bins) != 20 {
		t.Fatalf("default bins: %v %d", err, len(d.Bins))
	}
	d, err = s.Distribution("monetary", 4)
	if err != nil || len(d.Bins) != 4 || d.Stats.Median != 30 {
		t.Fatalf("rebinned: %v %+v", err, d)
	}
	if _, err := s.Distribution("age", 0); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestAdminStore(t *testing.T) {
	s := NewAdminStore("Admin@Example.com", "hash")
	if !s.Enabled() {
		t.Fatal("store should be enabled")
	}
	if _, err := s.GetAdminByEmail(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("lookup should ignore case: %v", err)
	}
	if _, err := s.GetAdminByEmail(context.Background(), "other@example.com"); err == nil {
		t.Fatal("expected not found")
	}
	if NewAdminStore("", "").Enabled() {
		t.Fatal("empty config should disable the store")
	}
}
