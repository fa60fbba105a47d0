package analytics

import (
	"math"
	"sort"

	"github.com/codahale/hdrhistogram"

	"ecomdash/api/models"
)

// Field extractors for the RFM columns.
func FrequencyValues(customers []models.CustomerRFM) []float64 {
	out := make([]float64, len(customers))
	for i, c := range customers {
		out[i] = float64(c.Frequency)
	}
	return out
}

func RecencyValues(customers []models.CustomerRFM) []float64 {
	out := make([]float64, len(customers))
	for i, c := range customers {
		out[i] = float64(c.Recency)
	}
	return out
}

func MonetaryValues(customers []models.CustomerRFM) []float64 {
	out := make([]float64, len(customers))
	for i, c := range customers {
		out[i] = c.Monetary.InexactFloat64()
	}
	return out
}

// Describe summarizes values. scale is the number of recorded units per value
// (1 for day and purchase counts, 100 for currency); quantiles are exact for
// scaled values below 2048 and within 0.1% above.
func Describe(values []float64, scale float64) models.DistributionStats {
	st := models.DistributionStats{Count: len(values)}
	if len(values) == 0 {
		return st
	}

	st.Min, st.Max = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, v := range values {
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
		sum += v
	}
	n := float64(len(values))
	st.Mean = sum / n

	var m2, m3 float64
	for _, v := range values {
		d := v - st.Mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 > 0 {
		st.Skewness = m3 / math.Pow(m2, 1.5)
	}

	q, ok := hdrQuantiles(values, st.Min, st.Max, scale)
	if !ok {
		q = exactQuantiles(values)
	}
	st.P25 = q(25)
	st.Median = q(50)
	st.P75 = q(75)
	st.P90 = q(90)
	return st
}

// maxTrackable bounds the scaled span recorded into the HDR histogram.
const maxTrackable = int64(1) << 50

// hdrQuantiles records values shifted so the smallest one is zero. ok is false
// when the scaled span does not fit or a value could not be recorded.
func hdrQuantiles(values []float64, lo, hi, scale float64) (func(float64) float64, bool) {
	span := (hi - lo) * scale
	if math.IsNaN(span) || span > float64(maxTrackable) {
		return nil, false
	}
	base := int64(math.Round(lo * scale))
	h := hdrhistogram.New(1, max(int64(math.Round(span)), 2), 3)
	for _, v := range values {
		if err := h.RecordValue(int64(math.Round(v*scale)) - base); err != nil {
			return nil, false
		}
	}
	return func(p float64) float64 {
		return float64(h.ValueAtQuantile(p)+base) / scale
	}, true
}

// exactQuantiles ranks a sorted copy the same way the HDR histogram does.
func exactQuantiles(values []float64) func(float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return func(p float64) float64 {
		rank := int(p/100*float64(len(sorted)) + 0.5)
		return sorted[min(max(rank-1, 0), len(sorted)-1)]
	}
}

// OneTimeShare is the fraction of customers with exactly one purchase.
func OneTimeShare(customers []models.CustomerRFM) float64 {
	if len(customers) == 0 {
		return 0
	}
	n := 0
	for _, c := range customers {
		if c.Frequency == 1 {
			n++
		}
	}
	return float64(n) / float64(len(customers))
}

// NewDistribution bins and describes one RFM field.
func NewDistribution(field string, values []float64, bins int, scale float64) models.Distribution {
	return models.Distribution{
		Field: field,
		Bins:  Histogram(values, bins),
		Stats: Describe(values, scale),
	}
}
