package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"ukmap/internal/modules/sensors/types"
)

// Columns names the header cells holding each field.
type Columns struct {
	ID        string
	Latitude  string
	Longitude string
}

var DefaultColumns = Columns{ID: "Serial", Latitude: "Latitude", Longitude: "Longitude"}

// SchemaError reports header columns that could not be found.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing columns %s", e.Path, strings.Join(e.Missing, ", "))
}

type csvSource struct {
	path       string
	columns    Columns
	swapLatLon bool
}

// NewCSVSource reads a comma-delimited file with a header row. When swapLatLon
// is set the latitude and longitude columns are exchanged on read, for files
// whose headers are transposed.
func NewCSVSource(path string, columns Columns, swapLatLon bool) SensorSource {
	return &csvSource{path: path, columns: columns, swapLatLon: swapLatLon}
}

func (s *csvSource) ListRecords(ctx context.Context) ([]types.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open sensors csv: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close sensors csv", "path", s.path, "error", err)
		}
	}()
	return s.read(ctx, f)
}

func (s *csvSource) read(ctx context.Context, r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Path: s.path, Missing: []string{s.columns.ID, s.columns.Latitude, s.columns.Longitude}}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", s.path, err)
	}
	header = slices.Clone(header)
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	idIdx, latIdx, lonIdx, err := s.resolve(header)
	if err != nil {
		return nil, err
	}
	if s.swapLatLon {
		latIdx, lonIdx = lonIdx, latIdx
	}

	var out []types.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		line, _ := cr.FieldPos(0)
		lat, err := parseCoord(field(row, latIdx))
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: column %q: %w", s.path, line, header[latIdx], err)
		}
		lon, err := parseCoord(field(row, lonIdx))
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: column %q: %w", s.path, line, header[lonIdx], err)
		}
		out = append(out, types.Record{ID: field(row, idIdx), Latitude: lat, Longitude: lon})
	}
	return out, nil
}

func (s *csvSource) resolve(header []string) (idIdx, latIdx, lonIdx int, err error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := index[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	idIdx = lookup(s.columns.ID)
	latIdx = lookup(s.columns.Latitude)
	lonIdx = lookup(s.columns.Longitude)
	if len(missing) > 0 {
		return 0, 0, 0, &SchemaError{Path: s.path, Missing: missing}
	}
	return idIdx, latIdx, lonIdx, nil
}

// missingValues are the cell texts read as a missing coordinate. Matching is
// case-sensitive.
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// field returns the cell at i, or "" when the row ends before it.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseCoord(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if _, ok := missingValues[s]; ok {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
