package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

var (
	fiveDigitRe = regexp.MustCompile(`^\d{5}$`)
	yearColRe   = regexp.MustCompile(`^\d{4}$`)
)

// ReadSourceTable reads the CAINC4 CSV at path into a normalized table.
// The file is a legacy Latin-1 export, so it is decoded through charmap
// rather than read as UTF-8. Rows whose geography code is not a county
// FIPS are dropped structurally; rows that fail to parse against the
// schema are quarantined and counted, never propagated downstream.
func ReadSourceTable(path string, log zerolog.Logger) (*SourceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("source file %s not found: run the fetch command first", path)
		}
		return nil, fmt.Errorf("opening source file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	// The file ends with free-text footnote lines of varying width.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading source header: %w", err)
	}

	fipsIdx, nameIdx, lineCodeIdx := -1, -1, -1
	var years []string
	yearIdx := make(map[string]int)
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "GeoFIPS":
			fipsIdx = i
		case "GeoName":
			nameIdx = i
		case "LineCode":
			lineCodeIdx = i
		default:
			if y := strings.TrimSpace(col); yearColRe.MatchString(y) {
				years = append(years, y)
				yearIdx[y] = i
			}
		}
	}
	if fipsIdx < 0 || nameIdx < 0 || lineCodeIdx < 0 {
		return nil, fmt.Errorf("source file %s is missing required columns (GeoFIPS, GeoName, LineCode)", path)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("source file %s has no reporting year columns", path)
	}

	table := &SourceTable{Years: years}
	var nonCounty, quarantined int

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading source row: %w", err)
		}

		// Footnote lines at the bottom of the file are narrower than
		// the data rows; treat them like any other unparsable row.
		if len(rec) <= lineCodeIdx || len(rec) <= fipsIdx || len(rec) <= nameIdx {
			quarantined++
			continue
		}

		fips := normalizeGeoFIPS(rec[fipsIdx])
		if !isCountyFIPS(fips) {
			nonCounty++
			continue
		}

		lineCode, err := strconv.Atoi(strings.TrimSpace(rec[lineCodeIdx]))
		if err != nil {
			quarantined++
			continue
		}

		values := make(map[string]string, len(years))
		for _, y := range years {
			if idx := yearIdx[y]; idx < len(rec) {
				values[y] = rec[idx]
			}
		}

		table.Rows = append(table.Rows, SourceRow{
			FIPS:     fips,
			Name:     strings.TrimSpace(rec[nameIdx]),
			LineCode: lineCode,
			Values:   values,
		})
	}

	log.Info().
		Int("county_rows", len(table.Rows)).
		Int("non_county_rows", nonCounty).
		Int("quarantined_rows", quarantined).
		Int("year_columns", len(years)).
		Msg("Loaded source table")

	return table, nil
}

// normalizeGeoFIPS strips the quote and padding characters BEA wraps
// around the geography identifier (e.g. `"01001 "` -> `01001`).
func normalizeGeoFIPS(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
}

// isCountyFIPS reports whether a normalized geography code denotes a
// county. Codes ending in 000 are state or aggregate totals and are
// excluded along with anything that is not five digits.
func isCountyFIPS(fips string) bool {
	return fiveDigitRe.MatchString(fips) && !strings.HasSuffix(fips, "000")
}
