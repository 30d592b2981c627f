// Package store provides an in-memory Store implementation for tests
// and development.
package store

import (
	"context"
	"sync"

	"github.com/hafid/cashbook-engine/ledger"
)

// =============================================================================
// MEMORY STORE - whole-document replace semantics, in process
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	snap     ledger.Snapshot
	persists int

	// FailNext makes the next Persist/Load fail with a ConnectivityError,
	// for exercising the pending-sync path in tests.
	FailNext bool
}

func NewMemory() *Memory {
	return &Memory{snap: ledger.EmptySnapshot()}
}

func (m *Memory) Load(_ context.Context) (ledger.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return ledger.EmptySnapshot(), &ledger.ConnectivityError{Op: "load", Err: context.DeadlineExceeded}
	}
	return m.snap.Clone(), nil
}

func (m *Memory) Persist(_ context.Context, snap ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return &ledger.ConnectivityError{Op: "persist", Err: context.DeadlineExceeded}
	}
	// Last write wins, exactly like the remote document replace.
	m.snap = snap.Clone()
	m.persists++
	return nil
}

// Persists returns how many documents were written, for asserting that
// every mutation triggered exactly one persist.
func (m *Memory) Persists() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persists
}

// Seed replaces the stored snapshot without counting as a persist.
func (m *Memory) Seed(snap ledger.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
}
