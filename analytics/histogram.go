package analytics

import (
	"math"

	"ecomdash/api/models"
)

// Histogram splits values into equal-width bins over [min, max]. The last bin is
// closed on the right. When all values are equal the range is widened by 0.5 on
// each side.
func Histogram(values []float64, bins int) []models.HistogramBin {
	if len(values) == 0 || bins < 1 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Min = lo + float64(i)*width
		out[i].Max = lo + float64(i+1)*width
	}
	out[bins-1].Max = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}
