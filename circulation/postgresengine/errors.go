package postgresengine

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	constraintBarcodeUnique = "book_copies_barcode_unique"
	constraintBooksPKey     = "books_pkey"
	constraintCopiesPKey    = "book_copies_pkey"
	constraintMembersPKey   = "members_pkey"
	constraintBorrowingPKey = "borrowings_pkey"
	constraintFinesPKey     = "fines_pkey"
)

// classifyError maps driver errors from pgx and lib/pq onto the circulation error model.
//
// Serialization failures, deadlocks, lock timeouts and violations of the partial unique indexes
// become ErrConcurrencyConflict so the unit of work is retried and re-reads the current state.
// Duplicate identifiers or barcodes are a Conflict the caller has to resolve.
func classifyError(err error) error {
	code, constraint, ok := postgresErrorDetails(err)
	if !ok {
		return err
	}

	switch code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return errors.Join(circulation.ErrConcurrencyConflict, err)

	case pgerrcode.UniqueViolation:
		switch constraint {
		case constraintBarcodeUnique:
			return circulation.Conflict("barcode is already in use")
		case constraintBooksPKey, constraintCopiesPKey, constraintMembersPKey, constraintBorrowingPKey, constraintFinesPKey:
			return circulation.Conflict("record already exists")
		default:
			return errors.Join(circulation.ErrConcurrencyConflict, err)
		}

	case pgerrcode.ForeignKeyViolation:
		return circulation.NotFound("referenced record does not exist")
	}

	return err
}

func postgresErrorDetails(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}

	return "", "", false
}
