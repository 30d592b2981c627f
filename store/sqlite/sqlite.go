/*
Package sqlite provides the local durable journal for the ledger.

PURPOSE:
  The remote store can be unreachable for hours in a shop with flaky
  connectivity. The journal keeps every persisted snapshot on disk so
  that:
  - a failed remote persist is "saved locally, not yet synced", never lost
  - a restart while offline resumes from the last local snapshot
  - the retry job knows whether anything is still pending

KEY TABLE:
  snapshots: one row per persisted document revision, with the full
  JSON body and a pending flag. Reads always take the newest row.

WAL MODE:
  SQLite is opened with WAL for better crash recovery; the journal is
  written on every mutation.

USAGE:
  journal, err := sqlite.Open("./cashbook.db")
  ...
  defer journal.Close()

SEE ALSO:
  - store/fallback.go: composes journal + remote into one Store
  - ledger/snapshot.go: the Store contract
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hafid/cashbook-engine/ledger"
)

// Journal stores snapshot revisions locally.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the journal database.
// Use ":memory:" for tests.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return j, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		revision INTEGER NOT NULL PRIMARY KEY,
		body TEXT NOT NULL,
		pending INTEGER NOT NULL DEFAULT 0,
		saved_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_pending ON snapshots(pending);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Save writes a snapshot revision. pending marks it as not yet confirmed
// by the remote store.
func (j *Journal) Save(ctx context.Context, snap ledger.Snapshot, pending bool) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	p := 0
	if pending {
		p = 1
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (revision, body, pending, saved_at) VALUES (?, ?, ?, ?)`,
		snap.Revision, string(body), p, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Latest returns the newest journaled snapshot, or (nil, nil) when the
// journal is empty.
func (j *Journal) Latest(ctx context.Context) (*ledger.Snapshot, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var body string
	err := j.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots ORDER BY revision DESC LIMIT 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := ledger.EmptySnapshot()
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return nil, fmt.Errorf("decode journaled snapshot: %w", err)
	}
	return &snap, nil
}

// HasPending reports whether any journaled revision is still waiting for
// a successful remote persist.
func (j *Journal) HasPending(ctx context.Context) (bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE pending = 1`).Scan(&n)
	return n > 0, err
}

// MarkSynced clears the pending flag on every revision up to and
// including the given one. Called after a successful remote persist.
func (j *Journal) MarkSynced(ctx context.Context, revision int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx,
		`UPDATE snapshots SET pending = 0 WHERE revision <= ?`, revision)
	return err
}

// Prune drops all but the newest keep revisions. The journal is a
// recovery buffer, not an archive; the remote document is the record.
func (j *Journal) Prune(ctx context.Context, keep int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE pending = 0 AND revision NOT IN (
			SELECT revision FROM snapshots ORDER BY revision DESC LIMIT ?
		)`, keep)
	return err
}
