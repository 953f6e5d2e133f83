package pipeline

// SourceTable is the normalized in-memory view of the CAINC4 file:
// county-level rows only, with cleaned FIPS codes, plus the reporting
// year columns found in the header.
type SourceTable struct {
	Rows  []SourceRow
	Years []string
}

// HasYear reports whether the source file carries a column for the year.
func (t *SourceTable) HasYear(year string) bool {
	for _, y := range t.Years {
		if y == year {
			return true
		}
	}
	return false
}

// SourceRow is one county row of the source table. Values maps a year
// column name (e.g. "2023") to the raw text cell for that year.
type SourceRow struct {
	FIPS     string
	Name     string
	LineCode int
	Values   map[string]string
}

// ComponentSeries holds the numeric values of exactly one income
// component for one year, keyed by county FIPS code.
type ComponentSeries struct {
	Component string
	ByFIPS    map[string]ComponentValue
}

// ComponentValue is one county's entry in a ComponentSeries.
type ComponentValue struct {
	CountyName string
	Value      float64
}

// AggregatedRecord is the joined per-county unit: the three income
// components, their total, and the derived ratios.
//
// Invariants: TotalIncome == Wages + Property + Transfers exactly;
// WageRatio == Wages/TotalIncome when TotalIncome > 0 and 0 otherwise,
// likewise PropertyRatio. Components are never null: structurally
// absent ones are zero-filled before this record is built.
type AggregatedRecord struct {
	FIPS          string
	Year          int
	CountyName    string
	Wages         float64
	Property      float64
	Transfers     float64
	TotalIncome   float64
	WageRatio     float64
	PropertyRatio float64
}
