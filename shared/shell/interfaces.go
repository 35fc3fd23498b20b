package shell

import (
	"context"
)

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler defines the contract for components that execute one command as a unit of work.
// R is the feature specific result returned to the caller. HandlerResult carries the business
// outcome (idempotency) and the retry metadata.
// Implementations focus on business logic and are wrapped with observability decorators.
type CoreCommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, HandlerResult, error)
}

// Query represents the contract for all read-only query types.
type Query interface {
	QueryType() string
}

// CoreQueryHandler defines the contract for read-only query handlers.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
