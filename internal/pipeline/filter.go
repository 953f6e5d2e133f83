package pipeline

import (
	"fmt"
	"math"
)

// ApplyQualityFilter drops records below the minimum-signal threshold
// (exclusive: a total of exactly threshold is dropped) and records with
// an unresolved missing field. Zero-fill at extraction should make the
// latter impossible, but it is checked anyway. An empty result aborts
// the run; an empty table is never silently persisted.
func ApplyQualityFilter(records []AggregatedRecord, threshold float64) ([]AggregatedRecord, error) {
	kept := make([]AggregatedRecord, 0, len(records))
	var belowThreshold, incomplete int

	for _, rec := range records {
		if rec.TotalIncome <= threshold {
			belowThreshold++
			continue
		}
		if rec.CountyName == "" || hasNaN(rec) {
			incomplete++
			continue
		}
		kept = append(kept, rec)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf(
			"quality filter removed all %d records (threshold %v, %d below threshold, %d incomplete): refusing to persist an empty table",
			len(records), threshold, belowThreshold, incomplete)
	}

	return kept, nil
}

func hasNaN(rec AggregatedRecord) bool {
	return math.IsNaN(rec.Wages) || math.IsNaN(rec.Property) || math.IsNaN(rec.Transfers) ||
		math.IsNaN(rec.TotalIncome) || math.IsNaN(rec.WageRatio) || math.IsNaN(rec.PropertyRatio)
}
