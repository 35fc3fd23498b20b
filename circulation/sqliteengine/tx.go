package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	tableBooks      = "books"
	tableCopies     = "book_copies"
	tableMembers    = "members"
	tableBorrowings = "borrowings"
	tableFines      = "fines"

	colID            = "id"
	colOwnerID       = "owner_id"
	colTitle         = "title"
	colAuthor        = "author"
	colCategory      = "category"
	colISBN          = "isbn"
	colPublishedYear = "published_year"
	colCreatedAt     = "created_at"
	colUpdatedAt     = "updated_at"
	colBookID        = "book_id"
	colBarcode       = "barcode"
	colCondition     = "condition"
	colShelfLocation = "shelf_location"
	colStatus        = "status"
	colName          = "name"
	colEmail         = "email"
	colMaxBooks      = "max_books"
	colMemberID      = "member_id"
	colCopyID        = "copy_id"
	colBorrowDate    = "borrow_date"
	colDueDate       = "due_date"
	colReturnDate    = "return_date"
	colBorrowingID   = "borrowing_id"
	colAmount        = "amount"
	colReason        = "reason"
	colPaidAt        = "paid_at"

	actionSelect = "select"
	actionInsert = "insert"
	actionUpdate = "update"
	actionDelete = "delete"
	actionCount  = "count"
)

var (
	bookColumns      = []any{colID, colOwnerID, colTitle, colAuthor, colCategory, colISBN, colPublishedYear, colCreatedAt}
	copyColumns      = []any{colID, colOwnerID, colBookID, colBarcode, colCondition, colShelfLocation, colStatus, colCreatedAt, colUpdatedAt}
	memberColumns    = []any{colID, colOwnerID, colName, colEmail, colStatus, colMaxBooks, colCreatedAt}
	borrowingColumns = []any{colID, colOwnerID, colMemberID, colCopyID, colBorrowDate, colDueDate, colReturnDate, colStatus, colCreatedAt, colUpdatedAt}
	fineColumns      = []any{colID, colOwnerID, colBorrowingID, colAmount, colReason, colStatus, colPaidAt, colCreatedAt, colUpdatedAt}
)

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// liteTx implements circulation.Tx on one BEGIN IMMEDIATE transaction.
// The transaction already holds the write lock, so lookups need no row locking.
type liteTx struct {
	engine *Engine
	tx     *sql.Tx
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectSQLite)
}

func ownedBy(ownerID, id uuid.UUID) goqu.Ex {
	return goqu.Ex{colOwnerID: ownerID.String(), colID: id.String()}
}

func micros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func microsOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}

	return micros(*t)
}

func valueOrNil[T any](v *T) any {
	if v == nil {
		return nil
	}

	return *v
}

/*** CatalogStore ***/

func (tx *liteTx) InsertBook(ctx context.Context, book circulation.Book) error {
	return tx.insert(ctx, dialect().Insert(tableBooks).Rows(goqu.Record{
		colID:            book.ID.String(),
		colOwnerID:       book.OwnerID.String(),
		colTitle:         book.Title,
		colAuthor:        book.Author,
		colCategory:      book.Category,
		colISBN:          valueOrNil(book.ISBN),
		colPublishedYear: valueOrNil(book.PublishedYear),
		colCreatedAt:     micros(book.CreatedAt),
	}))
}

func (tx *liteTx) FindBook(ctx context.Context, ownerID, bookID uuid.UUID) (circulation.Book, error) {
	return queryOne(ctx, tx, dialect().From(tableBooks).Select(bookColumns...).Where(ownedBy(ownerID, bookID)), scanBook)
}

func (tx *liteTx) DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error {
	return tx.mustAffect(ctx, actionDelete, dialect().Delete(tableBooks).Where(ownedBy(ownerID, bookID)), circulation.ErrRecordNotFound)
}

func (tx *liteTx) InsertCopy(ctx context.Context, bookCopy circulation.BookCopy) error {
	return tx.insert(ctx, dialect().Insert(tableCopies).Rows(goqu.Record{
		colID:            bookCopy.ID.String(),
		colOwnerID:       bookCopy.OwnerID.String(),
		colBookID:        bookCopy.BookID.String(),
		colBarcode:       bookCopy.Barcode,
		colCondition:     bookCopy.Condition,
		colShelfLocation: bookCopy.ShelfLocation,
		colStatus:        string(bookCopy.Status),
		colCreatedAt:     micros(bookCopy.CreatedAt),
		colUpdatedAt:     micros(bookCopy.UpdatedAt),
	}))
}

func (tx *liteTx) FindCopy(ctx context.Context, ownerID, copyID uuid.UUID) (circulation.BookCopy, error) {
	return queryOne(ctx, tx, dialect().From(tableCopies).Select(copyColumns...).Where(ownedBy(ownerID, copyID)), scanCopy)
}

func (tx *liteTx) FindCopyByBarcode(ctx context.Context, ownerID uuid.UUID, barcode string) (circulation.BookCopy, error) {
	ds := dialect().From(tableCopies).
		Select(copyColumns...).
		Where(goqu.Ex{colOwnerID: ownerID.String(), colBarcode: barcode})

	return queryOne(ctx, tx, ds, scanCopy)
}

func (tx *liteTx) CountCopiesOfBook(ctx context.Context, ownerID, bookID uuid.UUID) (int, error) {
	ds := dialect().From(tableCopies).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{colOwnerID: ownerID.String(), colBookID: bookID.String()})

	return queryOne(ctx, tx, ds, scanCount)
}

func (tx *liteTx) SetCopyStatus(
	ctx context.Context,
	ownerID, copyID uuid.UUID,
	from, to circulation.CopyStatus,
	at time.Time,
) error {
	ds := dialect().Update(tableCopies).
		Set(goqu.Record{colStatus: string(to), colUpdatedAt: micros(at)}).
		Where(ownedBy(ownerID, copyID), goqu.C(colStatus).Eq(string(from)))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrConcurrencyConflict)
}

func (tx *liteTx) SetCopyCondition(ctx context.Context, ownerID, copyID uuid.UUID, condition string, at time.Time) error {
	ds := dialect().Update(tableCopies).
		Set(goqu.Record{colCondition: condition, colUpdatedAt: micros(at)}).
		Where(ownedBy(ownerID, copyID))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrRecordNotFound)
}

/*** MembershipStore ***/

func (tx *liteTx) InsertMember(ctx context.Context, member circulation.Member) error {
	return tx.insert(ctx, dialect().Insert(tableMembers).Rows(goqu.Record{
		colID:        member.ID.String(),
		colOwnerID:   member.OwnerID.String(),
		colName:      member.Name,
		colEmail:     member.Email,
		colStatus:    string(member.Status),
		colMaxBooks:  member.MaxBooks,
		colCreatedAt: micros(member.CreatedAt),
	}))
}

func (tx *liteTx) FindMember(ctx context.Context, ownerID, memberID uuid.UUID) (circulation.Member, error) {
	return queryOne(ctx, tx, dialect().From(tableMembers).Select(memberColumns...).Where(ownedBy(ownerID, memberID)), scanMember)
}

func (tx *liteTx) CountActiveBorrowings(ctx context.Context, ownerID, memberID uuid.UUID) (int, error) {
	ds := dialect().From(tableBorrowings).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			colOwnerID:  ownerID.String(),
			colMemberID: memberID.String(),
			colStatus:   string(circulation.BorrowingActive),
		})

	return queryOne(ctx, tx, ds, scanCount)
}

func (tx *liteTx) SetMemberStatus(ctx context.Context, ownerID, memberID uuid.UUID, status circulation.MemberStatus) error {
	ds := dialect().Update(tableMembers).
		Set(goqu.Record{colStatus: string(status)}).
		Where(ownedBy(ownerID, memberID))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrRecordNotFound)
}

/*** BorrowingStore ***/

func (tx *liteTx) InsertBorrowing(ctx context.Context, borrowing circulation.Borrowing) error {
	return tx.insert(ctx, dialect().Insert(tableBorrowings).Rows(goqu.Record{
		colID:         borrowing.ID.String(),
		colOwnerID:    borrowing.OwnerID.String(),
		colMemberID:   borrowing.MemberID.String(),
		colCopyID:     borrowing.CopyID.String(),
		colBorrowDate: micros(borrowing.BorrowDate),
		colDueDate:    micros(borrowing.DueDate),
		colReturnDate: microsOrNil(borrowing.ReturnDate),
		colStatus:     string(borrowing.Status),
		colCreatedAt:  micros(borrowing.CreatedAt),
		colUpdatedAt:  micros(borrowing.UpdatedAt),
	}))
}

func (tx *liteTx) FindBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) (circulation.Borrowing, error) {
	ds := dialect().From(tableBorrowings).Select(borrowingColumns...).Where(ownedBy(ownerID, borrowingID))

	return queryOne(ctx, tx, ds, scanBorrowing)
}

func (tx *liteTx) UpdateBorrowing(ctx context.Context, borrowing circulation.Borrowing) error {
	ds := dialect().Update(tableBorrowings).
		Set(goqu.Record{
			colDueDate:    micros(borrowing.DueDate),
			colReturnDate: microsOrNil(borrowing.ReturnDate),
			colStatus:     string(borrowing.Status),
			colUpdatedAt:  micros(borrowing.UpdatedAt),
		}).
		Where(ownedBy(borrowing.OwnerID, borrowing.ID))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrRecordNotFound)
}

func (tx *liteTx) DeleteBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) error {
	ds := dialect().Delete(tableBorrowings).Where(ownedBy(ownerID, borrowingID))

	return tx.mustAffect(ctx, actionDelete, ds, circulation.ErrRecordNotFound)
}

func (tx *liteTx) CountActiveBorrowingsForCopy(ctx context.Context, ownerID, copyID uuid.UUID) (int, error) {
	ds := dialect().From(tableBorrowings).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			colOwnerID: ownerID.String(),
			colCopyID:  copyID.String(),
			colStatus:  string(circulation.BorrowingActive),
		})

	return queryOne(ctx, tx, ds, scanCount)
}

func (tx *liteTx) CountActiveBorrowingsForBook(ctx context.Context, ownerID, bookID uuid.UUID) (int, error) {
	ds := dialect().From(goqu.T(tableBorrowings).As("b")).
		Join(goqu.T(tableCopies).As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.copy_id")))).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			"b.owner_id": ownerID.String(),
			"b.status":   string(circulation.BorrowingActive),
			"c.book_id":  bookID.String(),
		})

	return queryOne(ctx, tx, ds, scanCount)
}

func (tx *liteTx) ListOverdueBorrowings(ctx context.Context, ownerID uuid.UUID, asOf time.Time) ([]circulation.BorrowingRef, error) {
	ds := dialect().From(tableBorrowings).
		Select(colID, colOwnerID).
		Where(
			goqu.C(colStatus).Eq(string(circulation.BorrowingActive)),
			goqu.C(colDueDate).Lt(micros(asOf)),
		).
		Order(goqu.C(colDueDate).Asc(), goqu.C(colID).Asc())

	if ownerID != uuid.Nil {
		ds = ds.Where(goqu.C(colOwnerID).Eq(ownerID.String()))
	}

	return queryAll(ctx, tx, ds, scanBorrowingRef)
}

/*** FineLedger ***/

func (tx *liteTx) InsertFine(ctx context.Context, fine circulation.Fine) error {
	return tx.insert(ctx, dialect().Insert(tableFines).Rows(goqu.Record{
		colID:          fine.ID.String(),
		colOwnerID:     fine.OwnerID.String(),
		colBorrowingID: fine.BorrowingID.String(),
		colAmount:      fine.Amount.StringFixed(2),
		colReason:      string(fine.Reason),
		colStatus:      string(fine.Status),
		colPaidAt:      microsOrNil(fine.PaidAt),
		colCreatedAt:   micros(fine.CreatedAt),
		colUpdatedAt:   micros(fine.UpdatedAt),
	}))
}

func (tx *liteTx) FindFine(ctx context.Context, ownerID, fineID uuid.UUID) (circulation.Fine, error) {
	return queryOne(ctx, tx, dialect().From(tableFines).Select(fineColumns...).Where(ownedBy(ownerID, fineID)), scanFine)
}

func (tx *liteTx) ListFinesForBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) ([]circulation.Fine, error) {
	ds := dialect().From(tableFines).
		Select(fineColumns...).
		Where(goqu.Ex{colOwnerID: ownerID.String(), colBorrowingID: borrowingID.String()}).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc())

	return queryAll(ctx, tx, ds, scanFine)
}

func (tx *liteTx) UpdateFineAmount(ctx context.Context, ownerID, fineID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	ds := dialect().Update(tableFines).
		Set(goqu.Record{colAmount: amount.StringFixed(2), colUpdatedAt: micros(at)}).
		Where(ownedBy(ownerID, fineID), goqu.C(colStatus).Eq(string(circulation.FinePending)))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrConcurrencyConflict)
}

func (tx *liteTx) SetFineStatus(
	ctx context.Context,
	ownerID, fineID uuid.UUID,
	from, to circulation.FineStatus,
	paidAt *time.Time,
	at time.Time,
) error {
	ds := dialect().Update(tableFines).
		Set(goqu.Record{colStatus: string(to), colPaidAt: microsOrNil(paidAt), colUpdatedAt: micros(at)}).
		Where(ownedBy(ownerID, fineID), goqu.C(colStatus).Eq(string(from)))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrConcurrencyConflict)
}

/*** statement execution ***/

func (tx *liteTx) buildSQL(ctx context.Context, builder sqlBuilder) (string, error) {
	sqlQuery, _, toSQLErr := builder.ToSQL()
	if toSQLErr != nil {
		tx.engine.obs.LogError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return "", errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (tx *liteTx) query(ctx context.Context, builder sqlBuilder) (*sql.Rows, error) {
	sqlQuery, err := tx.buildSQL(ctx, builder)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryErr := tx.tx.QueryContext(ctx, sqlQuery)
	tx.engine.obs.LogQuery(ctx, actionSelect, sqlQuery, time.Since(start))

	if queryErr != nil {
		tx.engine.obs.LogError(ctx, logMsgDBQueryFailed, queryErr)
		return nil, wrapDBError(circulation.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

func (tx *liteTx) exec(ctx context.Context, action string, builder sqlBuilder) (int64, error) {
	sqlQuery, err := tx.buildSQL(ctx, builder)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	result, execErr := tx.tx.ExecContext(ctx, sqlQuery)
	tx.engine.obs.LogQuery(ctx, action, sqlQuery, time.Since(start))

	if execErr != nil {
		tx.engine.obs.LogError(ctx, logMsgDBExecFailed, execErr, logAttrAction, action)
		return 0, wrapDBError(circulation.ErrExecutingFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		tx.engine.obs.LogError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, errors.Join(circulation.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

func (tx *liteTx) insert(ctx context.Context, builder sqlBuilder) error {
	_, err := tx.exec(ctx, actionInsert, builder)
	return err
}

// mustAffect executes a write and returns errNoRows when it matched nothing.
func (tx *liteTx) mustAffect(ctx context.Context, action string, builder sqlBuilder, errNoRows error) error {
	rowsAffected, err := tx.exec(ctx, action, builder)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		tx.engine.obs.LogOperation(ctx, action+" matched no rows", logAttrRowsAffected, rowsAffected)
		return errNoRows
	}

	return nil
}

func (tx *liteTx) closeRows(ctx context.Context, rows *sql.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		tx.engine.obs.LogWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func queryOne[T any](ctx context.Context, tx *liteTx, builder sqlBuilder, scan func(*sql.Rows) (T, error)) (T, error) {
	var empty T

	rows, err := tx.query(ctx, builder)
	if err != nil {
		return empty, err
	}
	defer tx.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return empty, wrapDBError(circulation.ErrQueryingFailed, rowsErr)
		}

		return empty, circulation.ErrRecordNotFound
	}

	item, scanErr := scan(rows)
	if scanErr != nil {
		tx.engine.obs.LogError(ctx, logMsgScanRowFailed, scanErr)
		return empty, errors.Join(circulation.ErrScanningDBRowFailed, scanErr)
	}

	return item, nil
}

func queryAll[T any](ctx context.Context, tx *liteTx, builder sqlBuilder, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := tx.query(ctx, builder)
	if err != nil {
		return nil, err
	}
	defer tx.closeRows(ctx, rows)

	items := make([]T, 0)

	for rows.Next() {
		item, scanErr := scan(rows)
		if scanErr != nil {
			tx.engine.obs.LogError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(circulation.ErrScanningDBRowFailed, scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, wrapDBError(circulation.ErrQueryingFailed, rowsErr)
	}

	return items, nil
}

func wrapDBError(sentinel error, err error) error {
	classified := classifyError(err)
	if _, ok := circulation.KindOf(classified); ok {
		return classified
	}

	return errors.Join(sentinel, classified)
}
