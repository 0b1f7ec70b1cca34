package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
	"github.com/cognicore/korpus/pkg/korpus/store"
)

type entry struct {
	info    store.SnapshotInfo
	records []corpus.TokenRecord
}

var _ store.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{snapshots: make(map[string]entry)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSnapshot implements store.Store.
func (s *Store) SaveSnapshot(ctx context.Context, name string, records []corpus.TokenRecord) (store.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return store.SnapshotInfo{}, err
	}
	info := store.NewSnapshotInfo(name, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[info.ID] = entry{info: info, records: copyRecords(records)}
	return info, nil
}

// LoadSnapshot implements store.Store.
func (s *Store) LoadSnapshot(ctx context.Context, id string) ([]corpus.TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		for _, e := range s.snapshots {
			if e.info.ID > id {
				id = e.info.ID
			}
		}
	}
	e, ok := s.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("%w: snapshot %q", internalerr.ErrNotFound, id)
	}
	return copyRecords(e.records), nil
}

// ListSnapshots implements store.Store.
func (s *Store) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.SnapshotInfo, 0, len(s.snapshots))
	for _, e := range s.snapshots {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// DeleteSnapshot implements store.Store.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("%w: snapshot %q", internalerr.ErrNotFound, id)
	}
	delete(s.snapshots, id)
	return nil
}

func copyRecords(in []corpus.TokenRecord) []corpus.TokenRecord {
	out := make([]corpus.TokenRecord, len(in))
	copy(out, in)
	return out
}
