package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"
	"math"

	"ukmap/internal/modules/sensors/types"
)

//go:embed sql/list-locations.sql
var listLocationsSQL string

// SensorSource yields raw sensor rows in source order. Identifiers are returned
// as stored; canonicalisation happens in the service.
type SensorSource interface {
	ListRecords(ctx context.Context) ([]types.Record, error)
}

type sqliteSource struct {
	db *sql.DB
}

// NewSQLiteSource reads the sensor_locations table.
func NewSQLiteSource(db *sql.DB) SensorSource {
	return &sqliteSource{db: db}
}

func (s *sqliteSource) ListRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, listLocationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close sensor location rows", "error", err)
		}
	}()

	var out []types.Record
	for rows.Next() {
		var (
			rec      types.Record
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &lat, &lon); err != nil {
			return nil, err
		}
		rec.Latitude = nullAsNaN(lat)
		rec.Longitude = nullAsNaN(lon)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullAsNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
