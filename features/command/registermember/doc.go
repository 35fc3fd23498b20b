// Package registermember implements membership seeding. Registering the same member twice is a no-op.
package registermember
