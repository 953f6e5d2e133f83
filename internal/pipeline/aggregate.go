package pipeline

import "sort"

// Aggregate outer-joins the three component series on county FIPS and
// derives the total and ratio columns. A county present in any one
// series appears in the result; components it lacks are zero-filled,
// the same treatment a suppressed cell received at extraction. Ratios
// are defined as zero when total income is not positive, so division
// by zero cannot occur. Records come back sorted by FIPS so repeated
// runs produce identical output.
func Aggregate(wages, property, transfers *ComponentSeries, year int) []AggregatedRecord {
	keys := make(map[string]struct{})
	for fips := range wages.ByFIPS {
		keys[fips] = struct{}{}
	}
	for fips := range property.ByFIPS {
		keys[fips] = struct{}{}
	}
	for fips := range transfers.ByFIPS {
		keys[fips] = struct{}{}
	}

	fipsList := make([]string, 0, len(keys))
	for fips := range keys {
		fipsList = append(fipsList, fips)
	}
	sort.Strings(fipsList)

	records := make([]AggregatedRecord, 0, len(fipsList))
	for _, fips := range fipsList {
		w := wages.ByFIPS[fips]
		p := property.ByFIPS[fips]
		tr := transfers.ByFIPS[fips]

		name := w.CountyName
		if name == "" {
			name = p.CountyName
		}
		if name == "" {
			name = tr.CountyName
		}

		rec := AggregatedRecord{
			FIPS:        fips,
			Year:        year,
			CountyName:  name,
			Wages:       w.Value,
			Property:    p.Value,
			Transfers:   tr.Value,
			TotalIncome: w.Value + p.Value + tr.Value,
		}
		if rec.TotalIncome > 0 {
			rec.WageRatio = rec.Wages / rec.TotalIncome
			rec.PropertyRatio = rec.Property / rec.TotalIncome
		}
		records = append(records, rec)
	}

	return records
}
