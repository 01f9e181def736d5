package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ukmap/internal/geo"
	"ukmap/internal/modules/sensors/repository"
	"ukmap/internal/modules/sensors/types"
)

type Service struct {
	source repository.SensorSource
	bounds geo.BoundingBox
}

func NewService(source repository.SensorSource, bounds geo.BoundingBox) *Service {
	return &Service{source: source, bounds: bounds}
}

// Load reads every record from the source, canonicalises identifiers, keeps
// the first record per identifier and drops records outside the bounds.
func (s *Service) Load(ctx context.Context) ([]types.Record, error) {
	raw, err := s.source.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sensors: %w", err)
	}

	records := make([]types.Record, len(raw))
	for i, rec := range raw {
		rec.ID = NormalizeID(rec.ID)
		records[i] = rec
	}
	unique := Dedupe(records)
	kept := FilterBounds(unique, s.bounds)

	slog.Info("sensors loaded",
		"read", len(raw),
		"duplicates", len(raw)-len(unique),
		"outOfBounds", len(unique)-len(kept),
		"kept", len(kept),
	)
	return kept, nil
}

// Project pairs each record with its pixel on the base map.
func Project(records []types.Record, p geo.Projector) []types.Marker {
	out := make([]types.Marker, 0, len(records))
	for _, rec := range records {
		out = append(out, types.Marker{Record: rec, Pixel: p.Project(rec.Latitude, rec.Longitude)})
	}
	return out
}

// NormalizeID strips the fractional suffix numeric parsing leaves on
// identifiers, so "123.0" becomes "123".
func NormalizeID(id string) string {
	head, _, _ := strings.Cut(strings.TrimSpace(id), ".")
	return head
}

// Dedupe keeps the first record seen for each identifier, preserving order.
func Dedupe(records []types.Record) []types.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// FilterBounds keeps records inside b, edges included.
func FilterBounds(records []types.Record, b geo.BoundingBox) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, rec := range records {
		if b.Contains(rec.Latitude, rec.Longitude) {
			out = append(out, rec)
		}
	}
	return out
}
