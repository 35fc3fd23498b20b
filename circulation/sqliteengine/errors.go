package sqliteengine

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const uniqueBarcodeColumn = "book_copies.barcode"

// classifyError maps go-sqlite3 errors onto the circulation error model.
//
// A busy or locked database and violations of the partial unique indexes become
// ErrConcurrencyConflict. Duplicate identifiers or barcodes are a Conflict.
func classifyError(err error) error {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return err
	}

	if liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked {
		return errors.Join(circulation.ErrConcurrencyConflict, err)
	}

	if liteErr.Code != sqlite3.ErrConstraint {
		return err
	}

	switch liteErr.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey:
		return circulation.Conflict("record already exists")

	case sqlite3.ErrConstraintUnique:
		if strings.Contains(liteErr.Error(), uniqueBarcodeColumn) {
			return circulation.Conflict("barcode is already in use")
		}

		return errors.Join(circulation.ErrConcurrencyConflict, err)

	case sqlite3.ErrConstraintForeignKey:
		return circulation.NotFound("referenced record does not exist")
	}

	return err
}
