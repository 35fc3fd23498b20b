// Package deleteborrowing implements the administrative purge of a borrowing record.
//
// Purging an ACTIVE borrowing puts its copy back to AVAILABLE in the same unit of work.
// The fines of the borrowing are removed with it.
package deleteborrowing
