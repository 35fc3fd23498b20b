package circulation

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable classification of a business rule violation.
type ErrorKind string

const (
	// KindNotFound means the referenced entity does not exist or is outside the caller's partition.
	KindNotFound ErrorKind = "NotFound"

	// KindConflict means a precondition on the current state is violated.
	KindConflict ErrorKind = "Conflict"

	// KindInvalid means the input is malformed and was rejected before any store access.
	KindInvalid ErrorKind = "Invalid"
)

var (
	// ErrNotFound matches every *Error of kind KindNotFound via errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrConflict matches every *Error of kind KindConflict via errors.Is.
	ErrConflict = errors.New("conflict")

	// ErrInvalid matches every *Error of kind KindInvalid via errors.Is.
	ErrInvalid = errors.New("invalid")
)

var (
	// ErrConcurrencyConflict is returned by the engines when a guarded write affected no rows,
	// or when the database aborted the transaction due to a serialization failure or deadlock.
	// It is the only error that command handlers retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict, the unit of work has to be retried")

	// ErrRecordNotFound is returned by the stores when a lookup matched no row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNilDatabaseConnection is returned when an engine is constructed without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrQueryingFailed            = errors.New("querying failed")
	ErrExecutingFailed           = errors.New("executing statement failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrBeginningTxFailed         = errors.New("beginning transaction failed")
	ErrCommittingTxFailed        = errors.New("committing transaction failed")
	ErrMigrationFailed           = errors.New("schema migration failed")
)

// Error is a business rule violation with a stable kind and a human-readable reason.
type Error struct {
	Kind   ErrorKind
	Reason string
}

// Error renders the reason, which is meant to be shown to the caller as is.
func (e *Error) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrNotFound|ErrConflict|ErrInvalid) work for *Error values.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrInvalid:
		return e.Kind == KindInvalid
	}

	return false
}

// NotFound builds an *Error of kind KindNotFound.
func NotFound(reason string) error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

// Conflict builds an *Error of kind KindConflict.
func Conflict(reason string) error {
	return &Error{Kind: KindConflict, Reason: reason}
}

// Conflictf builds an *Error of kind KindConflict with a formatted reason.
func Conflictf(format string, args ...any) error {
	return Conflict(fmt.Sprintf(format, args...))
}

// Invalid builds an *Error of kind KindInvalid.
func Invalid(reason string) error {
	return &Error{Kind: KindInvalid, Reason: reason}
}

// Invalidf builds an *Error of kind KindInvalid with a formatted reason.
func Invalidf(format string, args ...any) error {
	return Invalid(fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var circErr *Error
	if errors.As(err, &circErr) {
		return circErr.Kind, true
	}

	return "", false
}

// NotFoundIfMissing translates ErrRecordNotFound from a store into a NotFound business error.
// Other errors pass through unchanged.
func NotFoundIfMissing(err error, reason string) error {
	if errors.Is(err, ErrRecordNotFound) {
		return NotFound(reason)
	}

	return err
}
