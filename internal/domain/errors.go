package domain

import "errors"

// Failure taxonomy for the ingest pipeline. Adapters wrap these sentinels
// with %w so the orchestrator can decide fatal-vs-isolated handling with
// errors.Is.
var (
	// ErrLookupFailed is a geocoding transport or HTTP failure, or a
	// response missing coordinates. Fatal to the bootstrap flow.
	ErrLookupFailed = errors.New("geocoding lookup failed")

	// ErrFetchFailed is a weather transport or HTTP failure. Isolated to
	// one location during refresh.
	ErrFetchFailed = errors.New("weather fetch failed")

	// ErrLoadFailed is a malformed snapshot or a storage error during
	// insert. Isolated to one location during refresh.
	ErrLoadFailed = errors.New("observation load failed")

	// ErrStorageUnavailable means the database file or its tables cannot
	// be opened or created.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
