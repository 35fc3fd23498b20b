package circulation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

func Test_Error_MatchesKindSentinels(t *testing.T) {
	notFound := circulation.NotFound("member not found")
	conflict := circulation.Conflictf("copy is currently %s", circulation.CopyBorrowed)
	invalid := circulation.Invalid("barcode is required")

	assert.ErrorIs(t, notFound, circulation.ErrNotFound)
	assert.NotErrorIs(t, notFound, circulation.ErrConflict)
	assert.ErrorIs(t, conflict, circulation.ErrConflict)
	assert.ErrorIs(t, invalid, circulation.ErrInvalid)
	assert.EqualError(t, conflict, "copy is currently BORROWED")
}

func Test_KindOf_FindsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", circulation.Conflict("borrowing limit reached"))

	kind, ok := circulation.KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, circulation.KindConflict, kind)

	_, ok = circulation.KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func Test_NotFoundIfMissing(t *testing.T) {
	missing := errors.Join(circulation.ErrRecordNotFound, errors.New("sql: no rows in result set"))

	assert.ErrorIs(t, circulation.NotFoundIfMissing(missing, "fine not found"), circulation.ErrNotFound)
	assert.ErrorIs(t, circulation.NotFoundIfMissing(circulation.ErrConcurrencyConflict, "fine not found"), circulation.ErrConcurrencyConflict)
}
