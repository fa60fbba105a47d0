package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

func ts(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("bad fixture time %q: %v", s, err)
	}
	return &v
}

func payment(t *testing.T, at, value string) models.OrderPayment {
	t.Helper()
	p := models.OrderPayment{}
	if value != "" {
		p.PaymentValue = decimal.NewNullDecimal(decimal.RequireFromString(value))
	}
	if at != "" {
		p.ApprovedAt = ts(t, at)
	}
	return p
}

func order(t *testing.T, at string) models.Order {
	t.Helper()
	if at == "" {
		return models.Order{}
	}
	return models.Order{ApprovedAt: ts(t, at)}
}

func customersWithSegments(labels ...string) []models.CustomerRFM {
	out := make([]models.CustomerRFM, len(labels))
	for i, l := range labels {
		out[i] = models.CustomerRFM{Segment: l, Frequency: 1}
	}
	return out
}
