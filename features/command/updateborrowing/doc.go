// Package updateborrowing implements administrative corrections of a borrowing:
// moving its due date and toggling it between ACTIVE and RETURNED.
//
// A status toggle always moves the linked copy too, in the same unit of work. Reactivating a returned
// borrowing is refused when its copy is no longer AVAILABLE, e.g. because it was lent again meanwhile.
package updateborrowing
