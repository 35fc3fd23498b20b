// Package checkout implements the Checkout use case: lending an available copy, found by its barcode, to a member.
//
// The copy status flip and the new ACTIVE borrowing are written in one unit of work. The member and copy
// rows are read with a lock inside that unit of work, and the copy status is changed with a guarded update
// (AVAILABLE -> BORROWED), so two concurrent checkouts of the same copy can never both succeed.
package checkout
