package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/circulation/postgresengine/internal/adapters"
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
	actionLock   = "select for update"
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

// pgTx implements circulation.Tx on top of one open database transaction.
type pgTx struct {
	engine *Engine
	db     adapters.DBTx
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

func ownedBy(ownerID, id uuid.UUID) goqu.Ex {
	return goqu.Ex{colOwnerID: ownerID.String(), colID: id.String()}
}

/*** CatalogStore ***/

func (tx *pgTx) InsertBook(ctx context.Context, book circulation.Book) error {
	return tx.insert(ctx, dialect().Insert(tableBooks).Rows(goqu.Record{
		colID:            book.ID.String(),
		colOwnerID:       book.OwnerID.String(),
		colTitle:         book.Title,
		colAuthor:        book.Author,
		colCategory:      book.Category,
		colISBN:          nullable(book.ISBN),
		colPublishedYear: nullable(book.PublishedYear),
		colCreatedAt:     book.CreatedAt,
	}))
}

func (tx *pgTx) FindBook(ctx context.Context, ownerID, bookID uuid.UUID) (circulation.Book, error) {
	ds := dialect().From(tableBooks).Select(bookColumns...).Where(ownedBy(ownerID, bookID)).ForUpdate(exp.Wait)

	return queryOne(ctx, tx, actionLock, ds, scanBook)
}

func (tx *pgTx) DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error {
	return tx.mustAffect(ctx, actionDelete, dialect().Delete(tableBooks).Where(ownedBy(ownerID, bookID)), circulation.ErrRecordNotFound)
}

func (tx *pgTx) InsertCopy(ctx context.Context, bookCopy circulation.BookCopy) error {
	return tx.insert(ctx, dialect().Insert(tableCopies).Rows(goqu.Record{
		colID:            bookCopy.ID.String(),
		colOwnerID:       bookCopy.OwnerID.String(),
		colBookID:        bookCopy.BookID.String(),
		colBarcode:       bookCopy.Barcode,
		colCondition:     bookCopy.Condition,
		colShelfLocation: bookCopy.ShelfLocation,
		colStatus:        string(bookCopy.Status),
		colCreatedAt:     bookCopy.CreatedAt,
		colUpdatedAt:     bookCopy.UpdatedAt,
	}))
}

func (tx *pgTx) FindCopy(ctx context.Context, ownerID, copyID uuid.UUID) (circulation.BookCopy, error) {
	ds := dialect().From(tableCopies).Select(copyColumns...).Where(ownedBy(ownerID, copyID)).ForUpdate(exp.Wait)

	return queryOne(ctx, tx, actionLock, ds, scanCopy)
}

func (tx *pgTx) FindCopyByBarcode(ctx context.Context, ownerID uuid.UUID, barcode string) (circulation.BookCopy, error) {
	ds := dialect().From(tableCopies).
		Select(copyColumns...).
		Where(goqu.Ex{colOwnerID: ownerID.String(), colBarcode: barcode}).
		ForUpdate(exp.Wait)

	return queryOne(ctx, tx, actionLock, ds, scanCopy)
}

func (tx *pgTx) CountCopiesOfBook(ctx context.Context, ownerID, bookID uuid.UUID) (int, error) {
	ds := dialect().From(tableCopies).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{colOwnerID: ownerID.String(), colBookID: bookID.String()})

	return queryOne(ctx, tx, actionCount, ds, scanCount)
}

func (tx *pgTx) SetCopyStatus(
	ctx context.Context,
	ownerID, copyID uuid.UUID,
	from, to circulation.CopyStatus,
	at time.Time,
) error {
	ds := dialect().Update(tableCopies).
		Set(goqu.Record{colStatus: string(to), colUpdatedAt: at}).
		Where(ownedBy(ownerID, copyID), goqu.C(colStatus).Eq(string(from)))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrConcurrencyConflict)
}

func (tx *pgTx) SetCopyCondition(ctx context.Context, ownerID, copyID uuid.UUID, condition string, at time.Time) error {
	ds := dialect().Update(tableCopies).
		Set(goqu.Record{colCondition: condition, colUpdatedAt: at}).
		Where(ownedBy(ownerID, copyID))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrRecordNotFound)
}

/*** MembershipStore ***/

func (tx *pgTx) InsertMember(ctx context.Context, member circulation.Member) error {
	return tx.insert(ctx, dialect().Insert(tableMembers).Rows(goqu.Record{
		colID:        member.ID.String(),
		colOwnerID:   member.OwnerID.String(),
		colName:      member.Name,
		colEmail:     member.Email,
		colStatus:    string(member.Status),
		colMaxBooks:  member.MaxBooks,
		colCreatedAt: member.CreatedAt,
	}))
}

func (tx *pgTx) FindMember(ctx context.Context, ownerID, memberID uuid.UUID) (circulation.Member, error) {
	ds := dialect().From(tableMembers).Select(memberColumns...).Where(ownedBy(ownerID, memberID)).ForUpdate(exp.Wait)

	return queryOne(ctx, tx, actionLock, ds, scanMember)
}

func (tx *pgTx) CountActiveBorrowings(ctx context.Context, ownerID, memberID uuid.UUID) (int, error) {
	ds := dialect().From(tableBorrowings).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			colOwnerID:  ownerID.String(),
			colMemberID: memberID.String(),
			colStatus:   string(circulation.BorrowingActive),
		})

	return queryOne(ctx, tx, actionCount, ds, scanCount)
}

func (tx *pgTx) SetMemberStatus(ctx context.Context, ownerID, memberID uuid.UUID, status circulation.MemberStatus) error {
	ds := dialect().Update(tableMembers).
		Set(goqu.Record{colStatus: string(status)}).
		Where(ownedBy(ownerID, memberID))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrRecordNotFound)
}

/*** BorrowingStore ***/

func (tx *pgTx) InsertBorrowing(ctx context.Context, borrowing circulation.Borrowing) error {
	return tx.insert(ctx, dialect().Insert(tableBorrowings).Rows(goqu.Record{
		colID:         borrowing.ID.String(),
		colOwnerID:    borrowing.OwnerID.String(),
		colMemberID:   borrowing.MemberID.String(),
		colCopyID:     borrowing.CopyID.String(),
		colBorrowDate: borrowing.BorrowDate,
		colDueDate:    borrowing.DueDate,
		colReturnDate: nullable(borrowing.ReturnDate),
		colStatus:     string(borrowing.Status),
		colCreatedAt:  borrowing.CreatedAt,
		colUpdatedAt:  borrowing.UpdatedAt,
	}))
}

func (tx *pgTx) FindBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) (circulation.Borrowing, error) {
	ds := dialect().From(tableBorrowings).Select(borrowingColumns...).Where(ownedBy(ownerID, borrowingID)).ForUpdate(exp.Wait)

	return queryOne(ctx, tx, actionLock, ds, scanBorrowing)
}

func (tx *pgTx) UpdateBorrowing(ctx context.Context, borrowing circulation.Borrowing) error {
	ds := dialect().Update(tableBorrowings).
		Set(goqu.Record{
			colDueDate:    borrowing.DueDate,
			colReturnDate: nullable(borrowing.ReturnDate),
			colStatus:     string(borrowing.Status),
			colUpdatedAt:  borrowing.UpdatedAt,
		}).
		Where(ownedBy(borrowing.OwnerID, borrowing.ID))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrRecordNotFound)
}

func (tx *pgTx) DeleteBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) error {
	return tx.mustAffect(ctx, actionDelete, dialect().Delete(tableBorrowings).Where(ownedBy(ownerID, borrowingID)), circulation.ErrRecordNotFound)
}

func (tx *pgTx) CountActiveBorrowingsForCopy(ctx context.Context, ownerID, copyID uuid.UUID) (int, error) {
	ds := dialect().From(tableBorrowings).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			colOwnerID: ownerID.String(),
			colCopyID:  copyID.String(),
			colStatus:  string(circulation.BorrowingActive),
		})

	return queryOne(ctx, tx, actionCount, ds, scanCount)
}

func (tx *pgTx) CountActiveBorrowingsForBook(ctx context.Context, ownerID, bookID uuid.UUID) (int, error) {
	ds := dialect().From(goqu.T(tableBorrowings).As("b")).
		Join(goqu.T(tableCopies).As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.copy_id")))).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{
			"b.owner_id": ownerID.String(),
			"b.status":   string(circulation.BorrowingActive),
			"c.book_id":  bookID.String(),
		})

	return queryOne(ctx, tx, actionCount, ds, scanCount)
}

func (tx *pgTx) ListOverdueBorrowings(ctx context.Context, ownerID uuid.UUID, asOf time.Time) ([]circulation.BorrowingRef, error) {
	ds := dialect().From(tableBorrowings).
		Select(colID, colOwnerID).
		Where(
			goqu.C(colStatus).Eq(string(circulation.BorrowingActive)),
			goqu.C(colDueDate).Lt(asOf),
		).
		Order(goqu.C(colDueDate).Asc(), goqu.C(colID).Asc())

	if ownerID != uuid.Nil {
		ds = ds.Where(goqu.C(colOwnerID).Eq(ownerID.String()))
	}

	return queryAll(ctx, tx, actionSelect, ds, scanBorrowingRef)
}

/*** FineLedger ***/

func (tx *pgTx) InsertFine(ctx context.Context, fine circulation.Fine) error {
	return tx.insert(ctx, dialect().Insert(tableFines).Rows(goqu.Record{
		colID:          fine.ID.String(),
		colOwnerID:     fine.OwnerID.String(),
		colBorrowingID: fine.BorrowingID.String(),
		colAmount:      fine.Amount.StringFixed(2),
		colReason:      string(fine.Reason),
		colStatus:      string(fine.Status),
		colPaidAt:      nullable(fine.PaidAt),
		colCreatedAt:   fine.CreatedAt,
		colUpdatedAt:   fine.UpdatedAt,
	}))
}

func (tx *pgTx) FindFine(ctx context.Context, ownerID, fineID uuid.UUID) (circulation.Fine, error) {
	ds := dialect().From(tableFines).Select(fineColumns...).Where(ownedBy(ownerID, fineID)).ForUpdate(exp.Wait)

	return queryOne(ctx, tx, actionLock, ds, scanFine)
}

func (tx *pgTx) ListFinesForBorrowing(ctx context.Context, ownerID, borrowingID uuid.UUID) ([]circulation.Fine, error) {
	ds := dialect().From(tableFines).
		Select(fineColumns...).
		Where(goqu.Ex{colOwnerID: ownerID.String(), colBorrowingID: borrowingID.String()}).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc()).
		ForUpdate(exp.Wait)

	return queryAll(ctx, tx, actionLock, ds, scanFine)
}

func (tx *pgTx) UpdateFineAmount(ctx context.Context, ownerID, fineID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	ds := dialect().Update(tableFines).
		Set(goqu.Record{colAmount: amount.StringFixed(2), colUpdatedAt: at}).
		Where(ownedBy(ownerID, fineID), goqu.C(colStatus).Eq(string(circulation.FinePending)))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrConcurrencyConflict)
}

func (tx *pgTx) SetFineStatus(
	ctx context.Context,
	ownerID, fineID uuid.UUID,
	from, to circulation.FineStatus,
	paidAt *time.Time,
	at time.Time,
) error {
	ds := dialect().Update(tableFines).
		Set(goqu.Record{colStatus: string(to), colPaidAt: nullable(paidAt), colUpdatedAt: at}).
		Where(ownedBy(ownerID, fineID), goqu.C(colStatus).Eq(string(from)))

	return tx.mustAffect(ctx, actionUpdate, ds, circulation.ErrConcurrencyConflict)
}

/*** statement execution ***/

func (tx *pgTx) buildSQL(ctx context.Context, builder sqlBuilder) (string, error) {
	sqlQuery, _, toSQLErr := builder.ToSQL()
	if toSQLErr != nil {
		tx.engine.obs.LogError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return "", errors.Join(circulation.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (tx *pgTx) query(ctx context.Context, action string, builder sqlBuilder) (adapters.DBRows, error) {
	sqlQuery, err := tx.buildSQL(ctx, builder)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryErr := tx.db.Query(ctx, sqlQuery)
	tx.engine.obs.LogQuery(ctx, action, sqlQuery, time.Since(start))

	if queryErr != nil {
		tx.engine.obs.LogError(ctx, logMsgDBQueryFailed, queryErr, logAttrAction, action)
		return nil, wrapDBError(circulation.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

func (tx *pgTx) exec(ctx context.Context, action string, builder sqlBuilder) (int64, error) {
	sqlQuery, err := tx.buildSQL(ctx, builder)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	result, execErr := tx.db.Exec(ctx, sqlQuery)
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

func (tx *pgTx) insert(ctx context.Context, builder sqlBuilder) error {
	_, err := tx.exec(ctx, actionInsert, builder)
	return err
}

// mustAffect executes a write and returns errNoRows when it matched nothing.
func (tx *pgTx) mustAffect(ctx context.Context, action string, builder sqlBuilder, errNoRows error) error {
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

func (tx *pgTx) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		tx.engine.obs.LogWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func queryOne[T any](
	ctx context.Context,
	tx *pgTx,
	action string,
	builder sqlBuilder,
	scan func(adapters.DBRows) (T, error),
) (T, error) {
	var empty T

	rows, err := tx.query(ctx, action, builder)
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

func queryAll[T any](
	ctx context.Context,
	tx *pgTx,
	action string,
	builder sqlBuilder,
	scan func(adapters.DBRows) (T, error),
) ([]T, error) {
	rows, err := tx.query(ctx, action, builder)
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

// wrapDBError classifies a driver error. Business errors are returned as they are,
// everything else is joined with the sentinel of the failed step.
func wrapDBError(sentinel error, err error) error {
	classified := classifyError(err)
	if _, ok := circulation.KindOf(classified); ok {
		return classified
	}

	return errors.Join(sentinel, classified)
}

// nullable turns a nil pointer into an untyped nil so goqu renders NULL.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}

	return *v
}
