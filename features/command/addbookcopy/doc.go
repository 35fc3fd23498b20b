// Package addbookcopy implements catalog seeding: adding a physical copy to a book,
// creating the book on the fly when its metadata is supplied.
//
// Re-sending the same copy is a no-op, so seeding scripts can be re-run.
package addbookcopy
