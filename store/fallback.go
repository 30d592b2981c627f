/*
Package store composes the remote document store with the local journal.

PURPOSE:
  The Fallback store is what production wires into the Book:

    Persist: PUT remotely, then journal the snapshot locally either
             way. Remote failure -> the journal row is flagged pending
             and the caller gets a ConnectivityError ("saved locally,
             not yet synced").
    Load:    GET remotely; on failure fall back to the newest journaled
             snapshot, so a restart while offline resumes where the
             shop left off.

  Resync re-persists the newest journaled snapshot and clears pending
  flags; the jobs runner calls it on a schedule.
*/
package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hafid/cashbook-engine/ledger"
	"github.com/hafid/cashbook-engine/store/sqlite"
)

type Fallback struct {
	remote  ledger.Store
	journal *sqlite.Journal
	log     zerolog.Logger
}

func NewFallback(remote ledger.Store, journal *sqlite.Journal, log zerolog.Logger) *Fallback {
	return &Fallback{
		remote:  remote,
		journal: journal,
		log:     log.With().Str("component", "fallback-store").Logger(),
	}
}

func (f *Fallback) Load(ctx context.Context) (ledger.Snapshot, error) {
	snap, err := f.remote.Load(ctx)
	if err == nil {
		return snap, nil
	}

	local, jerr := f.journal.Latest(ctx)
	if jerr != nil || local == nil {
		// Nothing local either; hand back the remote fallback (last
		// known good or empty) with the original error.
		return snap, err
	}
	f.log.Warn().Int64("revision", local.Revision).
		Msg("remote unreachable, resuming from local journal")
	return *local, err
}

func (f *Fallback) Persist(ctx context.Context, snap ledger.Snapshot) error {
	rerr := f.remote.Persist(ctx, snap)

	if jerr := f.journal.Save(ctx, snap, rerr != nil); jerr != nil {
		f.log.Error().Err(jerr).Msg("local journal write failed")
	}
	if rerr != nil {
		return rerr
	}
	if err := f.journal.MarkSynced(ctx, snap.Revision); err != nil {
		f.log.Error().Err(err).Msg("journal sync mark failed")
	}
	return nil
}

// Pending reports whether journaled revisions are awaiting remote sync.
func (f *Fallback) Pending(ctx context.Context) (bool, error) {
	return f.journal.HasPending(ctx)
}

// Resync pushes the newest journaled snapshot to the remote store and
// clears pending flags. No-op when nothing is pending.
func (f *Fallback) Resync(ctx context.Context) error {
	pending, err := f.journal.HasPending(ctx)
	if err != nil || !pending {
		return err
	}

	snap, err := f.journal.Latest(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	if err := f.remote.Persist(ctx, *snap); err != nil {
		return err
	}
	if err := f.journal.MarkSynced(ctx, snap.Revision); err != nil {
		return err
	}
	f.log.Info().Int64("revision", snap.Revision).Msg("journal resynced to remote")
	return nil
}
