// Package circulation provides the core types and abstractions of the library circulation engine.
//
// It defines the entities (Book, BookCopy, Member, Borrowing, Fine), their closed status
// enumerations with explicit allowed-transition tables, the error taxonomy
// (NotFound, Conflict, Invalid), the overdue and fine arithmetic, and the unit-of-work
// abstraction that the storage engines implement.
//
// Storage engines live in sub-packages:
//   - postgresengine: PostgreSQL via pgx.Pool, sql.DB or sqlx.DB
//   - sqliteengine: embedded SQLite for single-node deployments and tests
//
// Every multi-entity change runs inside exactly one unit of work:
//
//	err := uow.WithinTx(ctx, func(ctx context.Context, tx circulation.Tx) error {
//		cp, err := tx.FindCopyByBarcode(ctx, ownerID, "BC-1")
//		if err != nil {
//			return err
//		}
//
//		return tx.SetCopyStatus(ctx, ownerID, cp.ID, circulation.CopyAvailable, circulation.CopyBorrowed, now)
//	})
//
// Any error returned from the callback rolls the transaction back.
package circulation
