package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

func TestMonthlyIncomeMergesDaysWithinMonth(t *testing.T) {
	rows := []models.OrderPayment{
		payment(t, "2017-01-03 10:00:00", "100"),
		payment(t, "2017-02-11 09:00:00", "50"),
		payment(t, "2017-01-28 23:59:59", "200"),
	}
	got := MonthlyIncome(rows)
	if len(got) != 2 {
		t.Fatalf("got %d buckets want 2: %+v", len(got), got)
	}
	if !got[0].Month.Equal(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)) || got[0].Income.String() != "300" {
		t.Fatalf("january bucket %+v", got[0])
	}
	if got[1].Label != "2017-02" || got[1].Income.String() != "50" {
		t.Fatalf("february bucket %+v", got[1])
	}
	if got[0].IncomeThousands != 0.3 {
		t.Fatalf("thousands %v", got[0].IncomeThousands)
	}
}

func TestMonthlyIncomeZeroFillsGaps(t *testing.T) {
	rows := []models.OrderPayment{
		payment(t, "2017-11-03 10:00:00", "10"),
		payment(t, "2018-02-01 00:00:00", "20"),
		payment(t, "", "999"),
	}
	got := MonthlyIncome(rows)
	want := []string{"2017-11", "2017-12", "2018-01", "2018-02"}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i, w := range want {
		if got[i].Label != w {
			t.Fatalf("bucket %d label %q want %q", i, got[i].Label, w)
		}
	}
	if !got[1].Income.IsZero() || !got[2].Income.IsZero() {
		t.Fatalf("gap months should be zero: %+v", got)
	}
}

func TestMonthlyIncomeSkipsMissingAmounts(t *testing.T) {
	rows := []models.OrderPayment{
		payment(t, "2017-01-03 10:00:00", "10"),
		payment(t, "2017-01-04 10:00:00", ""),
		payment(t, "2017-02-01 00:00:00", ""),
	}
	got := MonthlyIncome(rows)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if !got[0].Income.Equal(decimal.NewFromInt(10)) || !got[1].Income.IsZero() {
		t.Fatalf("incomes %s %s", got[0].Income, got[1].Income)
	}
}

func TestMonthlyIncomeEmpty(t *testing.T) {
	if got := MonthlyIncome(nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMonthlyOrderCountsAlwaysTwelveMonths(t *testing.T) {
	rows := []models.Order{
		order(t, "2017-01-01 00:00:00"),
		order(t, "2017-01-31 00:00:00"),
		order(t, "2017-12-31 23:00:00"),
		order(t, "2016-12-31 23:00:00"),
		order(t, ""),
	}
	got := MonthlyOrderCounts(rows, 2017)
	if len(got) != 12 {
		t.Fatalf("got %d months", len(got))
	}
	if got[0].Count != 2 || got[11].Count != 1 || got[11].Label != "Dec" {
		t.Fatalf("unexpected counts %+v", got)
	}
	for _, m := range got[1:11] {
		if m.Count != 0 {
			t.Fatalf("month %d should be zero-filled: %+v", m.Month, m)
		}
	}
}
