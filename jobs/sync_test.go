package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/hafid/cashbook-engine/ledger"
)

type stubSyncer struct {
	pending bool
	syncs   int
}

func (s *stubSyncer) PendingSync() bool { return s.pending }

func (s *stubSyncer) Sync(_ context.Context) error {
	s.syncs++
	s.pending = false
	return nil
}

type stubResyncer struct {
	pending bool
	err     error
	resyncs int
}

func (s *stubResyncer) Pending(_ context.Context) (bool, error) { return s.pending, nil }

func (s *stubResyncer) Resync(_ context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.resyncs++
	s.pending = false
	return nil
}

func TestRetrySync_BookPendingTakesPriority(t *testing.T) {
	// GIVEN: the book holds an unsynced snapshot and the journal also
	// has pending rows
	book := &stubSyncer{pending: true}
	journal := &stubResyncer{pending: true}
	r := NewRunner(book, journal, zerolog.Nop())

	// WHEN: the retry job fires
	r.retrySync()

	// THEN: the book's newer in-memory snapshot is pushed; the journal
	// is left for the next tick
	assert.Equal(t, 1, book.syncs)
	assert.Equal(t, 0, journal.resyncs)
}

func TestRetrySync_PushesJournaledPendingAfterRestart(t *testing.T) {
	// GIVEN: a freshly restarted process - the book is clean but the
	// journal still carries rows flagged pending from before the crash
	book := &stubSyncer{pending: false}
	journal := &stubResyncer{pending: true}
	r := NewRunner(book, journal, zerolog.Nop())

	// WHEN: the retry job fires
	r.retrySync()

	// THEN: the journaled snapshots are pushed to the remote
	assert.Equal(t, 0, book.syncs)
	assert.Equal(t, 1, journal.resyncs)
	assert.False(t, journal.pending)
}

func TestRetrySync_NoopWhenNothingPending(t *testing.T) {
	book := &stubSyncer{}
	journal := &stubResyncer{}
	r := NewRunner(book, journal, zerolog.Nop())

	r.retrySync()

	assert.Equal(t, 0, book.syncs)
	assert.Equal(t, 0, journal.resyncs)
}

func TestRetrySync_RemoteStillDown_RetriesLater(t *testing.T) {
	// GIVEN: pending journal rows but a remote that is still unreachable
	journal := &stubResyncer{
		pending: true,
		err:     &ledger.ConnectivityError{Op: "persist", Err: errors.New("connection refused")},
	}
	r := NewRunner(&stubSyncer{}, journal, zerolog.Nop())

	// WHEN: the retry job fires
	r.retrySync()

	// THEN: nothing synced, pending survives for the next tick
	assert.Equal(t, 0, journal.resyncs)
	assert.True(t, journal.pending)
}

func TestRetrySync_NilStore_InMemoryOnly(t *testing.T) {
	book := &stubSyncer{pending: true}
	r := NewRunner(book, nil, zerolog.Nop())

	r.retrySync()

	assert.Equal(t, 1, book.syncs)
}
