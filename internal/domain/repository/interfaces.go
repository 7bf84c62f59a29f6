package repository

import (
	"context"

	"github.com/shashe9/teaminfinity/internal/domain/models"
)

// LoadResult is a fully validated base table plus the count of source rows
// dropped during validation.
type LoadResult struct {
	Samples []models.OrbitSample
	Dropped int
}

// SampleStore loads the Orbit Sample Store into memory. Implementations
// guarantee that every returned sample has a non-empty satellite name, a
// parseable UTC timestamp, and finite numeric coordinates; rows failing that
// are dropped, never repaired.
type SampleStore interface {
	Load(ctx context.Context) (*LoadResult, error)
	// Fingerprint identifies the current store contents (path+mtime for
	// files, row count + max timestamp for tables) so the session cache can
	// detect a changed store.
	Fingerprint(ctx context.Context) (string, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records pipeline observability events.
type Metrics interface {
	RecordQuery(op string)
	RecordQueryDuration(op string, seconds float64)
	RecordLoad(valid, dropped int)
	RecordCacheHit()
	RecordCacheMiss()
}
