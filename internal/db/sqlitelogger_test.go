package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"log/slog"
	"sync"
	"testing"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu   sync.Mutex
	recs []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.recs = append(h.recs, m)
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(_ string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.recs) - 1; i >= 0; i-- {
		if h.recs[i]["msg"].String() == "sql" {
			return h.recs[i]
		}
	}
	t.Fatal("no sql log record captured")
	return nil
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = nil
}

func openLogged(t *testing.T) (*sql.DB, *captureHandler) {
	t.Helper()
	handler := &captureHandler{}
	connector, err := NewLoggingConnector(":memory:", slog.New(handler))
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db, handler
}

func TestNewLoggingConnector_nilLoggerUsesDefault(t *testing.T) {
	conn, err := NewLoggingConnector(":memory:", nil)
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	if conn.(*loggingConnector).logger != slog.Default() {
		t.Error("logger is not slog.Default()")
	}
}

func TestLoggingConnector_statementsLogged(t *testing.T) {
	db, handler := openLogged(t)
	if _, err := db.Exec(`CREATE TABLE sensor_locations (serial TEXT, latitude REAL, longitude REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	tests := []struct {
		name    string
		run     func() error
		wantOp  string
		wantSQL string
	}{
		{
			name: "exec with args",
			run: func() error {
				_, err := db.Exec(`INSERT INTO sensor_locations (serial, latitude, longitude) VALUES (?, ?, ?)`, "123.0", 54.0, nil)
				return err
			},
			wantOp:  "exec",
			wantSQL: `INSERT INTO sensor_locations (serial, latitude, longitude) VALUES (?, ?, ?)`,
		},
		{
			name: "query row",
			run: func() error {
				var n int
				return db.QueryRow(`SELECT count(*) FROM sensor_locations`).Scan(&n)
			},
			wantOp:  "query",
			wantSQL: `SELECT count(*) FROM sensor_locations`,
		},
		{
			name: "prepared query",
			run: func() error {
				stmt, err := db.Prepare(`SELECT serial FROM sensor_locations WHERE latitude > ?`)
				if err != nil {
					return err
				}
				defer func() { _ = stmt.Close() }()
				rows, err := stmt.Query(50.0)
				if err != nil {
					return err
				}
				return rows.Close()
			},
			wantOp:  "query",
			wantSQL: `SELECT serial FROM sensor_locations WHERE latitude > ?`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler.reset()
			if err := tt.run(); err != nil {
				t.Fatalf("run: %v", err)
			}
			got := handler.last(t)
			if got["op"].String() != tt.wantOp {
				t.Errorf("op: got %q, want %q", got["op"].String(), tt.wantOp)
			}
			if got["sql"].String() != tt.wantSQL {
				t.Errorf("sql: got %q, want %q", got["sql"].String(), tt.wantSQL)
			}
			if _, ok := got["args"]; !ok {
				t.Error("expected args attribute in log")
			}
		})
	}
}

func TestLoggingConnector_multiStatementExec(t *testing.T) {
	db, _ := openLogged(t)

	_, err := db.Exec(`
		CREATE TABLE a (id INTEGER);
		CREATE TABLE b (id INTEGER);
		INSERT INTO b (id) VALUES (1);
	`)
	if err != nil {
		t.Fatalf("exec script: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM b`).Scan(&n); err != nil {
		t.Fatalf("second statement did not run: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d; want 1", n)
	}
}

func TestFormatArgs(t *testing.T) {
	got := formatArgs([]driver.NamedValue{
		{Ordinal: 1, Value: nil},
		{Ordinal: 2, Value: []byte("raw")},
		{Ordinal: 3, Name: "lat", Value: 54.5},
	})
	want := []string{"NULL", "raw", "lat=54.5"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("formatArgs[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestLoggingConnector_PingSucceeds(t *testing.T) {
	db, _ := openLogged(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
