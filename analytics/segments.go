package analytics

import (
	"sort"

	"ecomdash/api/models"
)

// UnknownSegment labels customers with an empty segment_result.
const UnknownSegment = "unknown"

// SegmentCounts counts customers per segment label, largest first, ties by label.
func SegmentCounts(customers []models.CustomerRFM) []models.SegmentCount {
	counts := make(map[string]int)
	for _, c := range customers {
		label := c.Segment
		if label == "" {
			label = UnknownSegment
		}
		counts[label]++
	}

	out := make([]models.SegmentCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.SegmentCount{
			Segment: label,
			Count:   n,
			Share:   float64(n) / float64(len(customers)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
