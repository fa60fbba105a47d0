package analytics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"ecomdash/api/models"
)

func TestHistogramBins(t *testing.T) {
	got := Histogram([]float64{0, 1, 2, 3, 4, 10}, 5)
	if len(got) != 5 {
		t.Fatalf("got %d bins", len(got))
	}
	wantCounts := []int{2, 2, 1, 0, 1}
	for i, w := range wantCounts {
		if got[i].Count != w {
			t.Fatalf("bin %d count %d want %d (%+v)", i, got[i].Count, w, got)
		}
	}
	if got[0].Min != 0 || got[4].Max != 10 {
		t.Fatalf("edges %+v", got)
	}
}

func TestHistogramEdgeCases(t *testing.T) {
	if Histogram(nil, 20) != nil {
		t.Fatal("empty input should yield no bins")
	}
	same := Histogram([]float64{3, 3, 3}, 4)
	total := 0
	for _, b := range same {
		total += b.Count
	}
	if total != 3 || same[0].Min != 2.5 || same[3].Max != 3.5 {
		t.Fatalf("constant input %+v", same)
	}
}

func TestDescribe(t *testing.T) {
	st := Describe([]float64{1, 2, 3, 4, 5}, 1)
	if st.Count != 5 || st.Min != 1 || st.Max != 5 || st.Mean != 3 {
		t.Fatalf("basic stats %+v", st)
	}
	if st.Median != 3 || st.P25 != 1 || st.P90 != 5 {
		t.Fatalf("quantiles %+v", st)
	}
	if math.Abs(st.Skewness) > 1e-12 {
		t.Fatalf("symmetric data skewness %v", st.Skewness)
	}

	right := Describe([]float64{1, 1, 1, 1, 20}, 1)
	if right.Skewness <= 0 {
		t.Fatalf("right-skewed data should have positive skewness, got %v", right.Skewness)
	}

	money := Describe([]float64{10.25, 20.50, 30.75}, 100)
	if money.Median != 20.5 {
		t.Fatalf("currency median %v", money.Median)
	}

	if empty := Describe(nil, 1); empty.Count != 0 {
		t.Fatalf("empty %+v", empty)
	}
}

func TestDescribeWideSpan(t *testing.T) {
	st := Describe([]float64{-9.22e18, 5}, 1)
	if st.P75 != 5 || st.P90 != 5 {
		t.Fatalf("upper quantiles %+v", st)
	}
	if st.P25 != -9.22e18 || st.Min != -9.22e18 {
		t.Fatalf("lower quantiles %+v", st)
	}

	// Same answers whichever path computes them.
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	hdr, ok := hdrQuantiles(values, 1, 9, 1)
	if !ok {
		t.Fatal("small span should fit the histogram")
	}
	exact := exactQuantiles(values)
	for _, p := range []float64{25, 50, 75, 90} {
		if hdr(p) != exact(p) {
			t.Fatalf("p%v: hdr %v exact %v", p, hdr(p), exact(p))
		}
	}
}

func TestOneTimeShareAndExtractors(t *testing.T) {
	cs := []models.CustomerRFM{
		{Frequency: 1, Recency: 10, Monetary: decimal.RequireFromString("5.5")},
		{Frequency: 1, Recency: 20, Monetary: decimal.RequireFromString("7")},
		{Frequency: 3, Recency: 30, Monetary: decimal.RequireFromString("9")},
		{Frequency: 2, Recency: 40, Monetary: decimal.RequireFromString("1")},
	}
	if got := OneTimeShare(cs); got != 0.5 {
		t.Fatalf("one-time share %v", got)
	}
	if OneTimeShare(nil) != 0 {
		t.Fatal("empty share should be zero")
	}
	if v := MonetaryValues(cs); v[0] != 5.5 {
		t.Fatalf("monetary %v", v)
	}
	if v := RecencyValues(cs); v[3] != 40 {
		t.Fatalf("recency %v", v)
	}
	d := NewDistribution("frequency", FrequencyValues(cs), 30, 1)
	if d.Field != "frequency" || len(d.Bins) != 30 || d.Stats.Count != 4 {
		t.Fatalf("distribution %+v", d)
	}
}
