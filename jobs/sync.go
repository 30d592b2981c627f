// Package jobs schedules background maintenance for the ledger:
// retrying pending-sync snapshots and pruning the local journal.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/hafid/cashbook-engine/ledger"
)

// Syncer is what the retry job needs from the book: whether anything is
// pending and a way to push it.
type Syncer interface {
	PendingSync() bool
	Sync(ctx context.Context) error
}

// Resyncer is what the retry job needs from the backing store: whether
// journaled revisions survived a restart unpushed, and a way to push
// them. The book's in-memory pending flag does not survive a restart;
// the journal's pending rows do.
type Resyncer interface {
	Pending(ctx context.Context) (bool, error)
	Resync(ctx context.Context) error
}

// Runner owns the cron scheduler.
type Runner struct {
	cron  *cron.Cron
	book  Syncer
	store Resyncer // may be nil (in-memory store)
	log   zerolog.Logger

	syncTimeout time.Duration
}

func NewRunner(book Syncer, store Resyncer, log zerolog.Logger) *Runner {
	return &Runner{
		cron:        cron.New(cron.WithLocation(time.Local)),
		book:        book,
		store:       store,
		log:         log.With().Str("component", "jobs").Logger(),
		syncTimeout: 30 * time.Second,
	}
}

// Start registers the jobs and starts the scheduler.
// spec is a cron expression; "*/5 * * * *" retries every five minutes.
func (r *Runner) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.retrySync); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info().Str("schedule", spec).Msg("sync retry job scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Runner) retrySync() {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Msg("sync job panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.syncTimeout)
	defer cancel()

	// In-process pending state first: the book's snapshot is the newest.
	if r.book.PendingSync() {
		if err := r.book.Sync(ctx); err != nil {
			if ledger.IsConnectivity(err) {
				r.log.Warn().Err(err).Msg("remote still unreachable, will retry")
				return
			}
			r.log.Error().Err(err).Msg("sync retry failed")
			return
		}
		r.log.Info().Msg("pending snapshot synced")
		return
	}

	// After a restart the book starts clean; journal rows flagged
	// pending are picked up here.
	if r.store == nil {
		return
	}
	pending, err := r.store.Pending(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("journal pending check failed")
		return
	}
	if !pending {
		return
	}
	if err := r.store.Resync(ctx); err != nil {
		if ledger.IsConnectivity(err) {
			r.log.Warn().Err(err).Msg("remote still unreachable, will retry")
			return
		}
		r.log.Error().Err(err).Msg("journal resync failed")
		return
	}
	r.log.Info().Msg("journaled pending snapshots resynced")
}
