package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind classifies one raw value cell under the missing-value policy.
type CellKind int

const (
	// CellObserved means the cell carried a parsable number.
	CellObserved CellKind = iota
	// CellSuppressed means the value was withheld by the source ("(D)").
	CellSuppressed
	// CellNotAvailable means no estimate exists for the cell ("(NA)"),
	// or the cell could not be parsed as a number at all.
	CellNotAvailable
)

// Cell is the tagged result of classifying a raw value cell.
type Cell struct {
	Kind  CellKind
	Value float64
}

// ClassifyCell applies the missing-value policy to one raw cell. The
// known footnote tokens are recognized exactly; anything else gets a
// best-effort numeric parse and falls back to CellNotAvailable.
func ClassifyCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	switch s {
	case "", tokenNotAvailable:
		return Cell{Kind: CellNotAvailable}
	case tokenSuppressed:
		return Cell{Kind: CellSuppressed}
	}

	// Some exports carry thousands separators.
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return Cell{Kind: CellNotAvailable}
	}
	return Cell{Kind: CellObserved, Value: v}
}

// Fill maps a tagged cell to the number that enters the pipeline. This
// is the single point where suppressed and unavailable values become
// zero; no stage after extraction ever sees a missing value.
func (c Cell) Fill() float64 {
	if c.Kind == CellObserved {
		return c.Value
	}
	return 0
}

// ExtractComponent slices one income component out of the source table:
// the rows matching lineCode, projected to (FIPS, county name, value)
// for the given year column. A county appearing twice under the same
// line code is a data error, not something to reconcile silently.
func ExtractComponent(table *SourceTable, lineCode int, component, year string) (*ComponentSeries, error) {
	if !table.HasYear(year) {
		return nil, fmt.Errorf("source file has no column for year %s", year)
	}

	series := &ComponentSeries{
		Component: component,
		ByFIPS:    make(map[string]ComponentValue),
	}

	for _, row := range table.Rows {
		if row.LineCode != lineCode {
			continue
		}
		if _, dup := series.ByFIPS[row.FIPS]; dup {
			return nil, fmt.Errorf("duplicate %s row for county %s in year %s", component, row.FIPS, year)
		}
		cell := ClassifyCell(row.Values[year])
		series.ByFIPS[row.FIPS] = ComponentValue{
			CountyName: row.Name,
			Value:      cell.Fill(),
		}
	}

	return series, nil
}
