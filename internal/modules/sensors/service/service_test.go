package service

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"ukmap/internal/geo"
	"ukmap/internal/modules/sensors/repository"
	"ukmap/internal/modules/sensors/types"
)

type mockSource struct {
	records []types.Record
	err     error
}

func (m *mockSource) ListRecords(ctx context.Context) ([]types.Record, error) {
	return m.records, m.err
}

var testBounds = geo.BoundingBox{LatMin: 50, LatMax: 58, LonMin: -11, LonMax: 2}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "123.0", want: "123"},
		{in: "123", want: "123"},
		{in: " 42.5 ", want: "42"},
		{in: "abc", want: "abc"},
		{in: "a.b.c", want: "a"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupe_keepsFirstOccurrence(t *testing.T) {
	in := []types.Record{
		{ID: "a", Latitude: 1},
		{ID: "b", Latitude: 2},
		{ID: "a", Latitude: 3},
		{ID: "c", Latitude: 4},
		{ID: "b", Latitude: 5},
	}

	got := Dedupe(in)
	want := []types.Record{{ID: "a", Latitude: 1}, {ID: "b", Latitude: 2}, {ID: "c", Latitude: 4}}
	if len(got) != len(want) {
		t.Fatalf("Dedupe: got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestFilterBounds(t *testing.T) {
	in := []types.Record{
		{ID: "inside", Latitude: 54, Longitude: -4.5},
		{ID: "edge", Latitude: 50, Longitude: 2},
		{ID: "north", Latitude: 60, Longitude: -4.5},
		{ID: "west", Latitude: 54, Longitude: -20},
		{ID: "missing", Latitude: math.NaN(), Longitude: -4.5},
	}

	got := FilterBounds(in, testBounds)
	if len(got) != 2 {
		t.Fatalf("FilterBounds: got %d records, want 2: %+v", len(got), got)
	}
	if got[0].ID != "inside" || got[1].ID != "edge" {
		t.Errorf("FilterBounds = %+v; want inside, edge", got)
	}
}

func TestService_Load(t *testing.T) {
	src := &mockSource{records: []types.Record{
		{ID: "123.0", Latitude: 54, Longitude: -4.5},
		{ID: "123", Latitude: 52, Longitude: -1},
		{ID: "7", Latitude: 61, Longitude: 0},
		{ID: "7.0", Latitude: 53, Longitude: 0},
		{ID: "8", Latitude: 51, Longitude: 1.5},
	}}

	got, err := NewService(src, testBounds).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// "123" collapses onto the first "123.0"; "7" is deduped before the
	// bounds filter drops it, so the in-bounds "7.0" never surfaces.
	want := []types.Record{
		{ID: "123", Latitude: 54, Longitude: -4.5},
		{ID: "8", Latitude: 51, Longitude: 1.5},
	}
	if len(got) != len(want) {
		t.Fatalf("Load: got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestService_Load_sourceError(t *testing.T) {
	srcErr := errors.New("boom")

	_, err := NewService(&mockSource{err: srcErr}, testBounds).Load(context.Background())
	if !errors.Is(err, srcErr) {
		t.Fatalf("Load error = %v; want wrapping %v", err, srcErr)
	}
}

func TestService_Load_doesNotMutateSource(t *testing.T) {
	src := &mockSource{records: []types.Record{{ID: "5.0", Latitude: 54, Longitude: 0}}}

	if _, err := NewService(src, testBounds).Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.records[0].ID != "5.0" {
		t.Errorf("source record id = %q; want untouched 5.0", src.records[0].ID)
	}
}

func TestProject(t *testing.T) {
	p := geo.NewProjector(testBounds, 1000, 1000)

	got := Project([]types.Record{{ID: "1", Latitude: 54, Longitude: -4.5}}, p)
	if len(got) != 1 {
		t.Fatalf("Project: got %d markers, want 1", len(got))
	}
	if got[0].ID != "1" || got[0].Pixel != (geo.Pixel{X: 500, Y: 500}) {
		t.Errorf("Project = %+v; want id 1 at {500 500}", got[0])
	}
}

func TestService_Load_csvKeepsFirstOccurrence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.csv")
	body := "Serial,Latitude,Longitude\n" +
		"123.0,54,-4.5\n" +
		"7,53,-2\n" +
		"123,52,-1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	svc := NewService(repository.NewCSVSource(path, repository.DefaultColumns, false), testBounds)
	got, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []types.Record{
		{ID: "123", Latitude: 54, Longitude: -4.5},
		{ID: "7", Latitude: 53, Longitude: -2},
	}
	if len(got) != len(want) {
		t.Fatalf("Load returned %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v; want %+v", i, got[i], want[i])
		}
	}
}
