package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-ingest-service/internal/domain"
	"github.com/couchcryptid/weather-ingest-service/internal/observability"
)

// Geocoder resolves a postal/zip code to coordinates.
type Geocoder interface {
	ResolveZip(ctx context.Context, zip string) (lat, lon float64, err error)
}

// Fetcher retrieves the current observation for a coordinate pair.
type Fetcher interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error)
}

// SnapshotWriter persists a fetched payload and returns the file path.
type SnapshotWriter interface {
	Persist(cond domain.CurrentConditions) (string, error)
}

// Store loads snapshots into the observations table and maintains the
// derived locations table.
type Store interface {
	LoadSnapshot(ctx context.Context, path string) error
	DeriveLocations(ctx context.Context) (int64, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

// Ingestor orchestrates the two ingest flows: bootstrapping a new location
// by zip code and refreshing every saved location.
type Ingestor struct {
	geocoder  Geocoder
	fetcher   Fetcher
	snapshots SnapshotWriter
	store     Store
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Ingestor with the given stages and observability.
func New(g Geocoder, f Fetcher, w SnapshotWriter, s Store, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	return &Ingestor{
		geocoder:  g,
		fetcher:   f,
		snapshots: w,
		store:     s,
		logger:    logger,
		metrics:   metrics,
	}
}

// Bootstrap resolves zip to coordinates, ingests one observation, and
// derives any new locations so the zip becomes known to future refresh
// cycles. A failed lookup is fatal to the flow: without coordinates nothing
// else can proceed.
func (i *Ingestor) Bootstrap(ctx context.Context, zip string) error {
	lat, lon, err := i.geocoder.ResolveZip(ctx, zip)
	if err != nil {
		return fmt.Errorf("resolve zip %q: %w", zip, err)
	}
	i.logger.Info("zip resolved", "zip", zip, "lat", lat, "lon", lon)

	if err := i.ingest(ctx, lat, lon); err != nil {
		return err
	}

	derived, err := i.store.DeriveLocations(ctx)
	if err != nil {
		return err
	}
	if derived > 0 {
		i.metrics.LocationsDerived.Add(float64(derived))
	}
	i.logger.Info("bootstrap complete", "zip", zip, "new_locations", derived)
	return nil
}

// RefreshAll ingests a fresh observation for every saved location. Each
// location is independent: a failure is logged and counted, and the loop
// continues. Returns the number of locations refreshed. The returned error
// is non-nil only when the saved locations cannot be listed at all.
func (i *Ingestor) RefreshAll(ctx context.Context) (int, error) {
	locs, err := i.store.ListLocations(ctx)
	if err != nil {
		return 0, err
	}
	if len(locs) == 0 {
		i.logger.Info("no saved locations to refresh")
		return 0, nil
	}

	refreshed := 0
	for _, loc := range locs {
		if err := i.ingest(ctx, loc.Lat, loc.Lon); err != nil {
			i.logger.Warn("refresh failed, skipping location",
				"location_id", loc.ID,
				"location", loc.Name,
				"error", err,
			)
			i.metrics.IngestErrors.Inc()
			continue
		}
		refreshed++
	}

	i.logger.Info("refresh complete", "refreshed", refreshed, "saved", len(locs))
	return refreshed, nil
}

// ingest runs one fetch-snapshot-load cycle for a coordinate pair.
func (i *Ingestor) ingest(ctx context.Context, lat, lon float64) error {
	start := time.Now()

	cond, err := i.fetcher.FetchCurrent(ctx, lat, lon)
	if err != nil {
		return err
	}

	path, err := i.snapshots.Persist(cond)
	if err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	if err := i.store.LoadSnapshot(ctx, path); err != nil {
		return err
	}

	i.metrics.ObservationsIngested.Inc()
	i.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	i.logger.Info("observation ingested",
		"location_id", cond.ID,
		"location", cond.Name,
		"snapshot", path,
	)
	return nil
}
