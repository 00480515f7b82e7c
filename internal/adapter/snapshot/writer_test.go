package snapshot

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-ingest-service/internal/domain"
)

var testTime = time.Date(2026, time.August, 27, 14, 30, 45, 0, time.UTC)

func testWriter(t *testing.T, dir string) *Writer {
	t.Helper()
	return NewWriter(dir, clockwork.NewFakeClockAt(testTime), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleConditions(id int64, temp float64) domain.CurrentConditions {
	return domain.CurrentConditions{
		Coord:   domain.Coord{Lon: -112.3314, Lat: 33.63},
		Weather: []domain.WeatherCondition{{ID: 800, Main: "Clear", Description: "clear sky"}},
		Main:    domain.MainReadings{Temp: temp, Pressure: 1008, Humidity: 18},
		Wind:    domain.Wind{Speed: 9.22, Deg: 240},
		Clouds:  domain.Clouds{All: 5},
		Sys:     domain.Sys{Country: "US", Sunrise: 1724751060, Sunset: 1724798220},
		Dt:      1724779800,
		ID:      id,
		Name:    "Surprise",
	}
}

func TestPersist_NamesFileByLocationAndMinute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "json") // does not exist yet
	w := testWriter(t, dir)

	path, err := w.Persist(sampleConditions(123456, 101.3))
	require.NoError(t, err)

	// Seconds are truncated: 14:30:45 stamps as 202608271430.
	assert.Equal(t, filepath.Join(dir, "123456_202608271430.json"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestPersist_RoundTrip(t *testing.T) {
	w := testWriter(t, t.TempDir())
	cond := sampleConditions(123456, 101.3)

	path, err := w.Persist(cond)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got domain.CurrentConditions
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, cond, got)
}

func TestPersist_SameMinuteOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	first, err := w.Persist(sampleConditions(123456, 90.0))
	require.NoError(t, err)
	second, err := w.Persist(sampleConditions(123456, 95.5))
	require.NoError(t, err)

	// Same location in the same minute lands on the same path.
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	var got domain.CurrentConditions
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 95.5, got.Main.Temp)
}

func TestPersist_DistinctLocationsDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	p1, err := w.Persist(sampleConditions(111, 80))
	require.NoError(t, err)
	p2, err := w.Persist(sampleConditions(222, 81))
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPersist_CreateDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "json")
	w := testWriter(t, dir)

	_, err := w.Persist(sampleConditions(1, 70))
	require.NoError(t, err)
	_, err = w.Persist(sampleConditions(2, 71))
	require.NoError(t, err)
}
