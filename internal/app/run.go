package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"ukmap/internal/config"
	db "ukmap/internal/db"
	"ukmap/internal/geo"
	httpapi "ukmap/internal/httpapi"
	"ukmap/internal/migrate"
	sensors "ukmap/internal/modules/sensors"
	"ukmap/internal/modules/sensors/repository"
	"ukmap/internal/modules/sensors/service"
	"ukmap/internal/modules/sensors/views"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"source", cfg.Source,
		"csvPath", cfg.CSVPath,
		"swapLatLon", cfg.SwapLatLon,
		"baseMap", cfg.BaseMapPath,
		"bounds", cfg.Bounds.String(),
		"markerSize", cfg.MarkerSize,
		"outputPath", cfg.OutputPath,
		"sqlitePath", cfg.SQLitePath,
	)

	var dbConn *sql.DB
	if cfg.Source == config.SourceSQLite {
		var err error
		dbConn, err = db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(dbConn); closeErr != nil {
				slog.Error("db close", "error", closeErr)
			}
		}()
		if err := migrate.Run(ctx, dbConn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	fig, err := BuildFigure(ctx, cfg, newSource(cfg, dbConn))
	if err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, fig.PNG, 0o644); err != nil {
			return fmt.Errorf("write figure: %w", err)
		}
		slog.Info("figure written", "path", cfg.OutputPath, "bytes", len(fig.PNG))
		return nil
	}

	if err := views.LoadTemplates(); err != nil {
		return err
	}
	mux := httpapi.NewMux(dbConn)
	sensors.RegisterFeature(mux, fig)
	srv := httpapi.NewServer(cfg, mux)

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}
	return serve(ctx, srv, ln)
}

func newSource(cfg config.Config, dbConn *sql.DB) repository.SensorSource {
	if cfg.Source == config.SourceSQLite {
		return repository.NewSQLiteSource(dbConn)
	}
	return repository.NewCSVSource(cfg.CSVPath, repository.DefaultColumns, cfg.SwapLatLon)
}

// BuildFigure runs the whole pipeline: load and filter sensors, project them
// onto the base map and render the annotated figure.
func BuildFigure(ctx context.Context, cfg config.Config, source repository.SensorSource) (*views.Figure, error) {
	svc := service.NewService(source, cfg.Bounds)
	records, err := svc.Load(ctx)
	if err != nil {
		return nil, err
	}

	base, err := views.LoadBaseMap(cfg.BaseMapPath)
	if err != nil {
		return nil, err
	}
	size := base.Bounds().Size()
	markers := service.Project(records, geo.NewProjector(cfg.Bounds, size.X, size.Y))

	opts := views.DefaultFigureOptions()
	opts.MarkerSize = cfg.MarkerSize
	fig, err := views.RenderFigure(base, markers, cfg.Bounds, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("figure rendered",
		"markers", len(markers),
		"mapSize", size.String(),
		"width", fig.Width,
		"height", fig.Height,
	)
	return fig, nil
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
