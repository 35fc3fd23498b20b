// Package payfine implements settling a PENDING fine by payment. PAID is terminal.
package payfine
