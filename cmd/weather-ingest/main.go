// Command weather-ingest fetches current weather observations from
// OpenWeatherMap and loads them into an embedded SQLite database, keeping
// each raw API response as a timestamped JSON snapshot.
//
// Usage:
//
//	weather-ingest -zip 85374   # bootstrap a new location by zip code
//	weather-ingest              # refresh every saved location
//
// Exit codes: 1 config/usage, 2 geocoding lookup failed, 3 weather fetch
// failed, 4 observation load failed, 5 storage unavailable.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-ingest-service/internal/adapter/openweather"
	"github.com/couchcryptid/weather-ingest-service/internal/adapter/snapshot"
	"github.com/couchcryptid/weather-ingest-service/internal/adapter/sqlite"
	"github.com/couchcryptid/weather-ingest-service/internal/config"
	"github.com/couchcryptid/weather-ingest-service/internal/domain"
	"github.com/couchcryptid/weather-ingest-service/internal/observability"
	"github.com/couchcryptid/weather-ingest-service/internal/pipeline"
)

func main() {
	zip := flag.String("zip", "", "postal/zip code to bootstrap; omit the flag to refresh all saved locations")
	flag.Parse()

	var bootstrap bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "zip" {
			bootstrap = true
		}
	})

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	os.Exit(run(cfg, logger, metrics, bootstrap, *zip))
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, bootstrap bool, zip string) int {
	ctx := context.Background()

	store, err := sqlite.Open(cfg.DatabasePath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		return exitCode(err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		return exitCode(err)
	}

	client := openweather.NewClient(cfg, metrics, logger)
	snapshots := snapshot.NewWriter(cfg.SnapshotDir, clockwork.NewRealClock(), logger)
	ingestor := pipeline.New(client, client, snapshots, store, logger, metrics)

	if bootstrap {
		if zip == "" {
			zip = cfg.DefaultZip
		}
		if err := ingestor.Bootstrap(ctx, zip); err != nil {
			logger.Error("bootstrap failed", "zip", zip, "error", err)
			return exitCode(err)
		}
		return 0
	}

	if _, err := ingestor.RefreshAll(ctx); err != nil {
		logger.Error("refresh failed", "error", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps the failure taxonomy to distinct process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrLookupFailed):
		return 2
	case errors.Is(err, domain.ErrFetchFailed):
		return 3
	case errors.Is(err, domain.ErrLoadFailed):
		return 4
	case errors.Is(err, domain.ErrStorageUnavailable):
		return 5
	}
	return 1
}
