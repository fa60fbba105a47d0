// api/store/analytics_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ecomdash/api/analytics"
	"ecomdash/api/charts"
	"ecomdash/api/database"
	"ecomdash/api/models"
	"ecomdash/api/narrative"
)

var (
	ErrNotLoaded    = errors.New("no dataset loaded")
	ErrUnknownField = errors.New("unknown distribution field")
)

// Options controls how a snapshot is turned into a report.
type Options struct {
	Year            int
	TotalOrdersMode string
	FrequencyBins   int
	RecencyBins     int
	MonetaryBins    int
}

// AnalyticsStore serves reports computed from the latest successfully loaded snapshot.
type AnalyticsStore struct {
	Source database.Source
	opts   Options

	mu      sync.RWMutex
	dataset *models.Dataset
	report  *models.Report
	charts  map[string][]byte
	lastErr error
}

func NewAnalyticsStore(src database.Source, opts Options) *AnalyticsStore {
	return &AnalyticsStore{
		Source: src,
		opts:   opts,
		charts: make(map[string][]byte),
	}
}

// Reload loads a fresh snapshot. On failure the previous snapshot keeps being served.
func (s *AnalyticsStore) Reload(ctx context.Context) error {
	start := time.Now()
	ds, err := s.Source.Load(ctx)
	if err == nil {
		var report *models.Report
		report, err = BuildReport(ds, s.opts)
		if err == nil {
			s.mu.Lock()
			s.dataset = ds
			s.report = report
			s.charts = make(map[string][]byte)
			s.lastErr = nil
			s.mu.Unlock()
			log.Printf("Loaded snapshot %s from %s in %s", ds.SnapshotID, ds.Source, time.Since(start).Round(time.Millisecond))
			if s.opts.TotalOrdersMode == models.ModeSize {
				log.Printf("WARN: Total Orders counts rows x columns (%d x %d = %d); set TOTAL_ORDERS_MODE=rows for the row count (%d)",
					ds.Payments.Shape.Rows, ds.Payments.Shape.Columns, ds.Payments.Shape.Size(), ds.Payments.Shape.Rows)
			}
			return nil
		}
	}

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return fmt.Errorf("failed to load dataset from %s: %w", s.Source.Name(), err)
}

// LastError is the error of the most recent failed reload, nil after a success.
func (s *AnalyticsStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AnalyticsStore) Report() (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, ErrNotLoaded
	}
	return s.report, nil
}

// Chart returns the PNG of chart id, rendering it once per snapshot.
func (s *AnalyticsStore) Chart(id string) ([]byte, error) {
	s.mu.RLock()
	report, img := s.report, s.charts[id]
	s.mu.RUnlock()
	if report == nil {
		return nil, ErrNotLoaded
	}
	if img != nil {
		return img, nil
	}

	img, err := charts.Render(id, report)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.report == report {
		s.charts[id] = img
	}
	s.mu.Unlock()
	return img, nil
}

// Distribution rebins one RFM field. bins <= 0 uses the configured bin count.
func (s *AnalyticsStore) Distribution(field string, bins int) (models.Distribution, error) {
	s.mu.RLock()
	ds, report := s.dataset, s.report
	s.mu.RUnlock()
	if ds == nil {
		return models.Distribution{}, ErrNotLoaded
	}

	var d models.Distribution
	switch field {
	case "frequency":
		d = report.Frequency
	case "recency":
		d = report.Recency
	case "monetary":
		d = report.Monetary
	default:
		return models.Distribution{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if bins <= 0 || bins == len(d.Bins) {
		return d, nil
	}
	values, scale := fieldValues(ds, field)
	return analytics.NewDistribution(field, values, bins, scale), nil
}

func fieldValues(ds *models.Dataset, field string) ([]float64, float64) {
	switch field {
	case "frequency":
		return analytics.FrequencyValues(ds.Customers.Rows), 1
	case "recency":
		return analytics.RecencyValues(ds.Customers.Rows), 1
	default:
		return analytics.MonetaryValues(ds.Customers.Rows), 100
	}
}

// BuildReport computes every panel of the dashboard for ds.
func BuildReport(ds *models.Dataset, opts Options) (*models.Report, error) {
	monthlyOrders := analytics.MonthlyOrderCounts(ds.Orders.Rows, opts.Year)
	customers := ds.Customers.Rows

	r := &models.Report{
		SnapshotID:    ds.SnapshotID,
		LoadedAt:      ds.LoadedAt,
		Source:        ds.Source,
		Summary:       analytics.Summarize(ds, opts.Year, opts.TotalOrdersMode, monthlyOrders),
		MonthlyIncome: analytics.MonthlyIncome(ds.Payments.Rows),
		MonthlyOrders: monthlyOrders,
		Frequency:     analytics.NewDistribution("frequency", analytics.FrequencyValues(customers), opts.FrequencyBins, 1),
		Recency:       analytics.NewDistribution("recency", analytics.RecencyValues(customers), opts.RecencyBins, 1),
		Monetary:      analytics.NewDistribution("monetary", analytics.MonetaryValues(customers), opts.MonetaryBins, 100),
		OneTimeShare:  analytics.OneTimeShare(customers),
		Segments:      analytics.SegmentCounts(customers),
	}

	n, err := narrative.Build(narrative.Input{
		Summary:      r.Summary,
		Frequency:    r.Frequency,
		Recency:      r.Recency,
		Monetary:     r.Monetary,
		OneTimeShare: r.OneTimeShare,
		Segments:     r.Segments,
	})
	if err != nil {
		return nil, err
	}
	r.Narrative = n
	return r, nil
}
