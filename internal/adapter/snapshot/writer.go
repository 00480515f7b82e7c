package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-ingest-service/internal/domain"
)

// Minute-granularity stamp, e.g. 202608271430.
const stampLayout = "200601021504"

// Writer persists each fetched payload as a JSON file for audit and replay.
// Files are named <locationID>_<YYYYMMDDHHMM>.json; two writes for the same
// location within one minute land on the same name, so the second overwrites
// the first. That collision policy is deliberate and covered by tests.
type Writer struct {
	dir    string
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a snapshot writer for dir. The clock is injected so
// tests can freeze file naming.
func NewWriter(dir string, clock clockwork.Clock, logger *slog.Logger) *Writer {
	return &Writer{
		dir:    dir,
		clock:  clock,
		logger: logger,
	}
}

// Persist serializes the full payload verbatim and returns the file path
// for downstream loading. The snapshot directory is created if missing.
func (w *Writer) Persist(cond domain.CurrentConditions) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir %s: %w", w.dir, err)
	}

	name := fmt.Sprintf("%d_%s.json", cond.ID, w.clock.Now().Format(stampLayout))
	path := filepath.Join(w.dir, name)

	data, err := json.Marshal(cond)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}

	w.logger.Debug("snapshot written", "path", path, "location_id", cond.ID)
	return path, nil
}
