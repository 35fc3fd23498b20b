// Package core holds the building blocks shared by the pure Decide functions of the feature slices.
//
// Nothing in here touches a database. A Decide function receives the state a command handler loaded
// inside its unit of work and returns a DecisionResult that tells the handler what to write.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
