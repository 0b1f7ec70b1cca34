package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
)

// Store persists whole-corpus snapshots.
type Store interface {
	Close() error

	// SaveSnapshot stores a copy of records under a new id.
	SaveSnapshot(ctx context.Context, name string, records []corpus.TokenRecord) (SnapshotInfo, error)
	// LoadSnapshot returns the records of snapshot id. An empty id selects
	// the most recent snapshot. Unknown ids fail with internalerr.ErrNotFound.
	LoadSnapshot(ctx context.Context, id string) ([]corpus.TokenRecord, error)
	// ListSnapshots returns all snapshots, newest first.
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Records   int       `json:"records"`
	Documents int       `json:"documents"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewSnapshotInfo assigns a fresh ULID to a snapshot of records. IDs sort
// in creation order, also within the same millisecond.
func NewSnapshotInfo(name string, records []corpus.TokenRecord) SnapshotInfo {
	now := time.Now().UTC().Truncate(time.Millisecond)

	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()

	docs := make(map[string]struct{})
	for _, r := range records {
		docs[r.DocumentID] = struct{}{}
	}

	return SnapshotInfo{
		ID:        id.String(),
		Name:      name,
		CreatedAt: now,
		Records:   len(records),
		Documents: len(docs),
	}
}
