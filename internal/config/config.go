package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ukmap/internal/geo"
)

const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// Source selects where sensor records come from: SourceCSV or SourceSQLite.
	Source     string
	CSVPath    string
	SwapLatLon bool

	BaseMapPath string
	Bounds      geo.BoundingBox
	MarkerSize  int

	// OutputPath, when set, makes the run write the figure there and exit
	// instead of serving it.
	OutputPath string

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = "127.0.0.1:8080"
	}

	source := strings.ToLower(strings.TrimSpace(os.Getenv("SENSORS_SOURCE")))
	if source == "" {
		source = SourceCSV
	}
	switch source {
	case SourceCSV, SourceSQLite:
	default:
		return Config{}, fmt.Errorf("invalid SENSORS_SOURCE %q (allowed: csv, sqlite)", source)
	}

	csvPath := strings.TrimSpace(os.Getenv("SENSORS_CSV"))
	if csvPath == "" {
		csvPath = "GrowLocations.csv"
	}

	swapStr := strings.TrimSpace(os.Getenv("SENSORS_SWAP_LATLON"))
	if swapStr == "" {
		swapStr = "false"
	}
	swapLatLon, err := strconv.ParseBool(swapStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SENSORS_SWAP_LATLON %q: %w", swapStr, err)
	}

	baseMap := strings.TrimSpace(os.Getenv("BASE_MAP"))
	if baseMap == "" {
		baseMap = "map7.png"
	}

	bounds := geo.UK
	if s := strings.TrimSpace(os.Getenv("MAP_BOUNDS")); s != "" {
		bounds, err = geo.ParseBoundingBox(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAP_BOUNDS: %w", err)
		}
	}

	markerSizeStr := strings.TrimSpace(os.Getenv("MARKER_SIZE"))
	if markerSizeStr == "" {
		markerSizeStr = "10"
	}
	markerSize, err := strconv.Atoi(markerSizeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MARKER_SIZE %q: %w", markerSizeStr, err)
	}
	if markerSize <= 0 {
		return Config{}, fmt.Errorf("invalid MARKER_SIZE %d (must be > 0)", markerSize)
	}

	outputPath := strings.TrimSpace(os.Getenv("OUTPUT_PATH"))

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := strings.TrimSpace(os.Getenv("SQLITE_DSN"))
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "ukmap.db"
	}

	maxOpenConnsStr := strings.TrimSpace(os.Getenv("DB_MAX_OPEN_CONNS"))
	if maxOpenConnsStr == "" {
		maxOpenConnsStr = "1"
	}
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", maxOpenConnsStr, err)
	}

	maxIdleConnsStr := strings.TrimSpace(os.Getenv("DB_MAX_IDLE_CONNS"))
	if maxIdleConnsStr == "" {
		maxIdleConnsStr = "1"
	}
	maxIdleConns, err := strconv.Atoi(maxIdleConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", maxIdleConnsStr, err)
	}

	connMaxLifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if connMaxLifetimeStr == "" {
		connMaxLifetimeStr = "0s"
	}
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		Source:                source,
		CSVPath:               csvPath,
		SwapLatLon:            swapLatLon,
		BaseMapPath:           baseMap,
		Bounds:                bounds,
		MarkerSize:            markerSize,
		OutputPath:            outputPath,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
