// Package badger stores corpus snapshots in an embedded Badger database
// through badgerhold.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
	"github.com/cognicore/korpus/pkg/korpus/store"
)

// snapshotHeader is the listing entry of a snapshot.
type snapshotHeader struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Records   int
	Documents int
}

// snapshotBody holds the records; it shares its key with the header.
type snapshotBody struct {
	ID      string
	Records []corpus.TokenRecord
}

var _ store.Store = (*Store)(nil)

// Store implements store.Store on badgerhold.
type Store struct {
	db *badgerhold.Store
}

// Open opens or creates the database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot writes header and body in a single badger transaction.
func (s *Store) SaveSnapshot(ctx context.Context, name string, records []corpus.TokenRecord) (store.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return store.SnapshotInfo{}, err
	}
	info := store.NewSnapshotInfo(name, records)

	tx := s.db.Badger().NewTransaction(true)
	defer tx.Discard()

	header := snapshotHeader(info)
	if err := s.db.TxInsert(tx, info.ID, &header); err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("failed to save snapshot header: %w", err)
	}
	body := snapshotBody{ID: info.ID, Records: records}
	if err := s.db.TxInsert(tx, info.ID, &body); err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("failed to save snapshot records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return info, nil
}

// LoadSnapshot implements store.Store.
func (s *Store) LoadSnapshot(ctx context.Context, id string) ([]corpus.TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		var latest []snapshotHeader
		if err := s.db.Find(&latest, badgerhold.Where("ID").Ne("").SortBy("ID").Reverse().Limit(1)); err != nil {
			return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
		}
		if len(latest) == 0 {
			return nil, fmt.Errorf("%w: no snapshots", internalerr.ErrNotFound)
		}
		id = latest[0].ID
	}

	var body snapshotBody
	if err := s.db.Get(id, &body); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: snapshot %q", internalerr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if body.Records == nil {
		body.Records = []corpus.TokenRecord{}
	}
	return body.Records, nil
}

// ListSnapshots implements store.Store.
func (s *Store) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var headers []snapshotHeader
	if err := s.db.Find(&headers, badgerhold.Where("ID").Ne("").SortBy("ID").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	out := make([]store.SnapshotInfo, len(headers))
	for i, h := range headers {
		out[i] = store.SnapshotInfo(h)
	}
	return out, nil
}

// DeleteSnapshot implements store.Store.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.db.Badger().NewTransaction(true)
	defer tx.Discard()

	if err := s.db.TxDelete(tx, id, &snapshotHeader{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("%w: snapshot %q", internalerr.ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if err := s.db.TxDelete(tx, id, &snapshotBody{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete snapshot records: %w", err)
	}
	return tx.Commit()
}
