// Package borrowingdetails reads one borrowing together with its member, copy, book and fines.
//
// The read runs in a single unit of work so the parts are consistent with each other.
package borrowingdetails
