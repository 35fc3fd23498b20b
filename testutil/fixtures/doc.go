// Package fixtures provides Given-helpers that write circulation records directly through a unit of work.
//
// Each Library works in a fresh owner partition, so tests never see each other's records,
// not even on a shared PostgreSQL database.
package fixtures
