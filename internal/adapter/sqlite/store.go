package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/weather-ingest-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS current_weather (
	location_id            INTEGER NOT NULL,
	location_name          TEXT NOT NULL,
	location_country       TEXT,
	sunrise                TIMESTAMP,
	sunset                 TIMESTAMP,
	location_lon           REAL,
	location_lat           REAL,
	weather_main           TEXT,
	weather_description    TEXT,
	timestamp_local        TIMESTAMP,
	temperature            REAL,
	temperature_feels_like REAL,
	temperature_min        REAL,
	temperature_max        REAL,
	pressure               INTEGER,
	humidity               INTEGER,
	wind_speed             REAL,
	wind_degrees           INTEGER,
	clouds                 INTEGER
);

CREATE TABLE IF NOT EXISTS locations (
	id      INTEGER PRIMARY KEY,
	name    TEXT NOT NULL,
	country TEXT,
	lon     REAL,
	lat     REAL
);
`

// Store owns the embedded SQLite database holding the append-only
// current_weather table and the insert-if-absent locations table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if missing) the database file at path. Failures wrap
// domain.ErrStorageUnavailable.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create database dir %s: %v", domain.ErrStorageUnavailable, dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	// Single connection: SQLite allows one writer per file, and a shared
	// connection keeps statements serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle and its file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the two tables if they do not exist. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: create tables: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// LoadSnapshot reads a snapshot file, flattens the payload into the
// observations row shape, and appends one row to current_weather. Malformed
// input and SQL errors wrap domain.ErrLoadFailed.
func (s *Store) LoadSnapshot(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read snapshot %s: %v", domain.ErrLoadFailed, path, err)
	}

	var cond domain.CurrentConditions
	if err := json.Unmarshal(data, &cond); err != nil {
		return fmt.Errorf("%w: decode snapshot %s: %v", domain.ErrLoadFailed, path, err)
	}

	return s.InsertObservation(ctx, cond.Flatten())
}

// Timestamps are stored as UTC text so values stay portable across drivers.
const timeLayout = "2006-01-02 15:04:05"

// InsertObservation appends one row to current_weather.
func (s *Store) InsertObservation(ctx context.Context, obs domain.Observation) error {
	const q = `
		INSERT INTO current_weather (
			location_id, location_name, location_country,
			sunrise, sunset, location_lon, location_lat,
			weather_main, weather_description, timestamp_local,
			temperature, temperature_feels_like, temperature_min, temperature_max,
			pressure, humidity, wind_speed, wind_degrees, clouds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		obs.LocationID, obs.LocationName, obs.LocationCountry,
		obs.Sunrise.UTC().Format(timeLayout), obs.Sunset.UTC().Format(timeLayout),
		obs.LocationLon, obs.LocationLat,
		obs.WeatherMain, obs.WeatherDescription, obs.ObservedAt.UTC().Format(timeLayout),
		obs.Temperature, obs.TemperatureFeelsLike, obs.TemperatureMin, obs.TemperatureMax,
		obs.Pressure, obs.Humidity, obs.WindSpeed, obs.WindDegrees, obs.Clouds,
	)
	if err != nil {
		return fmt.Errorf("%w: insert observation for location %d: %v", domain.ErrLoadFailed, obs.LocationID, err)
	}

	return nil
}

// DeriveLocations inserts into locations every distinct location tuple from
// current_weather whose id is not already known. Existing rows are never
// touched, so the operation is idempotent. Returns the number of new
// locations. OR IGNORE guards against a duplicate id inside one derivation
// batch hitting the primary key.
func (s *Store) DeriveLocations(ctx context.Context) (int64, error) {
	const q = `
		INSERT OR IGNORE INTO locations (id, name, country, lon, lat)
		SELECT DISTINCT w.location_id, w.location_name, w.location_country, w.location_lon, w.location_lat
		FROM current_weather w
		WHERE NOT EXISTS (SELECT 1 FROM locations l WHERE l.id = w.location_id)`

	res, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("%w: derive locations: %v", domain.ErrLoadFailed, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: derive locations rows affected: %v", domain.ErrLoadFailed, err)
	}
	return n, nil
}

// ListLocations returns the distinct saved locations, the inputs for a
// refresh cycle. The result is re-queryable; order carries no meaning.
func (s *Store) ListLocations(ctx context.Context) ([]domain.Location, error) {
	const q = `SELECT DISTINCT id, name, country, lon, lat FROM locations ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list locations: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Country, &loc.Lon, &loc.Lat); err != nil {
			return nil, fmt.Errorf("%w: scan location: %v", domain.ErrStorageUnavailable, err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list locations: %v", domain.ErrStorageUnavailable, err)
	}

	return locs, nil
}
