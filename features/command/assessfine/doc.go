// Package assessfine implements charging a borrowing for a damaged or lost copy.
//
// Overdue fines are never assessed by hand; they belong to the accrual sweep.
package assessfine
