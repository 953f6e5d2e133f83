// Package gazetteer parses the Census Bureau county gazetteer file,
// the source of the county coordinates table used by the map front-end.
package gazetteer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	infra "github.com/postlabor/triage/internal/infra/duckdb"
)

// ParseCounties reads the tab-delimited gazetteer file and returns one
// coordinate row per county. GEOID is the 5-digit FIPS code; INTPTLAT
// and INTPTLONG are the county's interior point. Rows with unparsable
// coordinates are skipped rather than propagated.
func ParseCounties(r io.Reader) ([]infra.CoordinateRow, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading gazetteer header: %w", err)
		}
		return nil, fmt.Errorf("gazetteer file is empty")
	}

	// Header fields carry trailing padding in the published files.
	header := strings.Split(scanner.Text(), "\t")
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	geoidIdx, ok := idx["GEOID"]
	if !ok {
		return nil, fmt.Errorf("gazetteer file is missing GEOID column")
	}
	nameIdx, ok := idx["NAME"]
	if !ok {
		return nil, fmt.Errorf("gazetteer file is missing NAME column")
	}
	latIdx, ok := idx["INTPTLAT"]
	if !ok {
		return nil, fmt.Errorf("gazetteer file is missing INTPTLAT column")
	}
	lonIdx, ok := idx["INTPTLONG"]
	if !ok {
		return nil, fmt.Errorf("gazetteer file is missing INTPTLONG column")
	}

	var rows []infra.CoordinateRow
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != len(header) {
			continue
		}

		fips := strings.TrimSpace(fields[geoidIdx])
		if len(fips) != 5 {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[latIdx]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[lonIdx]), 64)
		if err != nil {
			continue
		}

		rows = append(rows, infra.CoordinateRow{
			FIPS:       fips,
			CountyName: strings.TrimSpace(fields[nameIdx]),
			Latitude:   lat,
			Longitude:  lon,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gazetteer rows: %w", err)
	}

	return rows, nil
}
