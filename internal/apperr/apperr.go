package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and handlers. Services wrap these
// with fmt.Errorf("...: %w", ...) so callers can use errors.Is while keeping
// the underlying pgx error in the chain.
var (
	// ErrNotFound marks a reference to an entity that does not exist
	// (unknown problem, unknown goal).
	ErrNotFound = errors.New("not found")

	// ErrStorage marks an underlying persistence failure. Write paths must
	// propagate it; read paths may degrade to zero-value results after
	// logging it.
	ErrStorage = errors.New("storage failure")

	// ErrInvalid marks malformed caller input, e.g. a toggle without a
	// problem ID.
	ErrInvalid = errors.New("invalid input")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsStorage(err error) bool  { return errors.Is(err, ErrStorage) }
func IsInvalid(err error) bool  { return errors.Is(err, ErrInvalid) }

// Storage wraps a driver error so that both ErrStorage and the original error
// stay matchable in the chain.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Invalid(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalid)
}
