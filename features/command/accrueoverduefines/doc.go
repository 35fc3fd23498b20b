// Package accrueoverduefines implements the overdue fine accrual sweep.
//
// The sweep lists the overdue ACTIVE borrowings once and then accrues each borrowing in its own
// unit of work. No lock is held across borrowings, so returns and checkouts keep flowing while a sweep runs.
// A borrowing that was returned between the listing and its turn is skipped.
//
// Accrual is idempotent: a borrowing carries at most one PENDING OVERDUE fine, whose amount is
// recomputed from the days overdue on every run. Once an overdue fine was paid or waived,
// the borrowing is not fined again.
package accrueoverduefines
