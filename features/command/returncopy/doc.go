// Package returncopy implements the Return use case.
//
// Returning closes an ACTIVE borrowing and puts its copy back on the shelf in one unit of work.
// It reports whether the return was late, but never creates a fine; fines come from the accrual sweep
// or from an explicit assessment.
package returncopy
