// Package observable provides wrapper components for instrumenting command and query handlers
// with metrics, tracing, and logging while keeping business logic pure.
//
// # Core Principle: External Wrapping
//
// The wrappers are applied at bootstrap/wiring time, not hidden inside factory functions:
//
//	// 1. Create pure business logic handler
//	coreHandler := checkout.NewCommandHandler(engine)
//
//	// 2. Wrap with observability
//	observableHandler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[checkout.Command, checkout.Result](metricsCollector),
//		observable.WithCommandTracing[checkout.Command, checkout.Result](tracingCollector),
//		observable.WithCommandContextualLogging[checkout.Command, checkout.Result](contextualLogger),
//	)
//
//	// 3. Use wrapped handler in application
//	borrowing, result, err := observableHandler.Handle(ctx, command)
//
// Business rule violations (NotFound, Conflict, Invalid) are recorded with the status "rejected" and
// logged at info level. Infrastructure failures, timeouts, and concurrency conflicts that survived
// all retries are logged at error level.
package observable
