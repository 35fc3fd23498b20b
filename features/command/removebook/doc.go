// Package removebook deletes a book with all of its copies.
//
// A book is only removed while none of its copies is on loan. Historic borrowings of its
// copies and their fines go with it.
package removebook
