// Command circulation runs circulation operations against a SQLite file or a PostgreSQL database.
//
// Every subcommand executes one operation and prints its result as JSON. Accrual is meant to be
// triggered externally, e.g. by cron running "circulation accrue-fines".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdout, os.Stderr)
	err := newRootCommand(a).ExecuteContext(ctx)

	stop()

	if err != nil {
		a.printError(err)
		os.Exit(exitCode(err))
	}
}
