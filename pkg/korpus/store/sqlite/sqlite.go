package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
	"github.com/cognicore/korpus/pkg/korpus/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL,
	records INTEGER NOT NULL,
	documents INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_tokens (
	snapshot_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	surface_form TEXT NOT NULL,
	normalized_form TEXT NOT NULL,
	pos_tag TEXT NOT NULL,
	lemma TEXT NOT NULL,
	document_id TEXT NOT NULL,
	sentence_index INTEGER NOT NULL,
	token_index INTEGER NOT NULL,
	PRIMARY KEY(snapshot_id, seq),
	FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot writes the header and every record in one transaction
func (s *sqliteStore) SaveSnapshot(ctx context.Context, name string, records []corpus.TokenRecord) (store.SnapshotInfo, error) {
	info := store.NewSnapshotInfo(name, records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.SnapshotInfo{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, name, created_at, records, documents) VALUES (?, ?, ?, ?, ?)`,
		info.ID, info.Name, info.CreatedAt.Format(time.RFC3339Nano), info.Records, info.Documents,
	)
	if err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO snapshot_tokens
	(snapshot_id, seq, surface_form, normalized_form, pos_tag, lemma, document_id, sentence_index, token_index)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return store.SnapshotInfo{}, err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			info.ID, i, r.SurfaceForm, r.NormalizedForm, r.Tag, r.Lemma,
			r.DocumentID, r.SentenceIndex, r.TokenIndex,
		); err != nil {
			return store.SnapshotInfo{}, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.SnapshotInfo{}, err
	}
	return info, nil
}

// LoadSnapshot reads the records of a snapshot in their original order
func (s *sqliteStore) LoadSnapshot(ctx context.Context, id string) ([]corpus.TokenRecord, error) {
	var row *sql.Row
	if id == "" {
		row = s.db.QueryRowContext(ctx, `SELECT id FROM snapshots ORDER BY id DESC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE id = ?`, id)
	}
	var found string
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: snapshot %q", internalerr.ErrNotFound, id)
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT surface_form, normalized_form, pos_tag, lemma, document_id, sentence_index, token_index
FROM snapshot_tokens
WHERE snapshot_id = ?
ORDER BY seq`, found)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []corpus.TokenRecord{}
	for rows.Next() {
		var r corpus.TokenRecord
		if err := rows.Scan(&r.SurfaceForm, &r.NormalizedForm, &r.Tag, &r.Lemma,
			&r.DocumentID, &r.SentenceIndex, &r.TokenIndex); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListSnapshots returns snapshot headers, newest first
func (s *sqliteStore) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, records, documents FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.SnapshotInfo{}
	for rows.Next() {
		var info store.SnapshotInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Name, &created, &info.Records, &info.Documents); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("snapshot %s: bad created_at %q: %w", info.ID, created, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and its records
func (s *sqliteStore) DeleteSnapshot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The pragma only covers the connection it ran on, so records are
	// removed explicitly rather than through the cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_tokens WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: snapshot %q", internalerr.ErrNotFound, id)
	}
	return tx.Commit()
}
