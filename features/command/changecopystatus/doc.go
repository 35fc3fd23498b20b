// Package changecopystatus lets catalog staff move a copy between AVAILABLE, MAINTENANCE and LOST.
//
// Moving a copy into or out of BORROWED is reserved for checkout and return.
package changecopystatus
