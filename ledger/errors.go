/*
errors.go - Centralized error taxonomy for the ledger engine

PURPOSE:
  All error types in one place. Every failure an engine operation can
  report falls into one of four recoverable categories:

  1. Validation    - malformed amount, malformed date, missing required field
  2. State         - operating on a closed day, double-closing, reopening an open day
  3. Authorization - privilege-gated action attempted with insufficient role
  4. Connectivity  - remote store unreachable or timed out

  No error in this system is fatal to the process. Validation, state and
  authorization checks run BEFORE any mutation, so a rejected operation
  never leaves the in-memory snapshot partially changed. A connectivity
  failure happens AFTER the mutation and means "saved locally, not yet
  synced" - the in-memory snapshot stays authoritative.

USAGE:
  if ledger.IsValidation(err) { ... surface to the user ... }
  if ledger.IsConnectivity(err) { ... schedule a retry ... }

SEE ALSO:
  - snapshot.go: Store contract that produces connectivity errors
  - recorder.go, reconcile.go: main producers of validation/state errors
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDayClosed is returned when recording or annulling against a day
	// that already has a Closure.
	ErrDayClosed = errors.New("day is closed")

	// ErrDayNotClosed is returned when reopening a day that was never closed.
	ErrDayNotClosed = errors.New("day is not closed")

	// ErrEntryNotFound is returned when an entry ID matches nothing in the
	// snapshot.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrStoreUnreachable is returned when the remote store times out or
	// cannot be reached. Never fatal: the caller proceeds with the
	// best-known local state.
	ErrStoreUnreachable = errors.New("remote store unreachable")

	// ErrRevisionConflict is the optimistic-concurrency hook. The bundled
	// remote store does not enforce revisions (last write wins, matching
	// the document-replace model); a store that does compares
	// Snapshot.Revision at persist time and fails with this error.
	ErrRevisionConflict = errors.New("snapshot revision conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry context for the presentation layer
// =============================================================================

// ValidationError reports malformed input. Always recoverable; nothing was
// mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StateError reports an operation attempted in the wrong ledger state
// (closed day, double close, reopening an open day). Rejected before any
// mutation.
type StateError struct {
	Day     Day
	Message string
	Err     error // ErrDayClosed or ErrDayNotClosed
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Day, e.Message)
}

func (e *StateError) Unwrap() error { return e.Err }

// AuthorizationError reports a privilege-gated action attempted by an
// insufficient role.
type AuthorizationError struct {
	Operator string
	Action   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s requires administrator privilege (operator %q)", e.Action, e.Operator)
}

// ConnectivityError wraps a failed load or persist against the remote
// store. The operation that triggered it is "pending sync", not failed.
type ConnectivityError struct {
	Op  string // "load" or "persist"
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return ErrStoreUnreachable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsConnectivity(err error) bool {
	return errors.Is(err, ErrStoreUnreachable)
}
