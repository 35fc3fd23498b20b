package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/accrueoverduefines"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/addbookcopy"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/assessfine"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/changecopystatus"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/changememberstatus"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/checkout"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/deleteborrowing"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/payfine"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/registermember"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/removebook"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/returncopy"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/updateborrowing"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/command/waivefine"
	"github.com/Rayyy-dev/ShelfWise-sub000/features/query/borrowingdetails"
)

const (
	flagAt        = "at"
	flagBorrowing = "borrowing"
	flagFine      = "fine"
	flagStatus    = "status"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "circulation",
		Short:         "Library circulation engine: loans, returns and fines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.engine, "engine", "", "storage engine: sqlite, pgx.pool, sql.db or sqlx.db (env CIRCULATION_ENGINE)")
	pf.StringVar(&a.flags.dsn, "dsn", "", "sqlite file path or postgres URL (env CIRCULATION_DSN)")
	pf.StringVar(&a.flags.owner, "owner", "", "owner partition id (env CIRCULATION_OWNER_ID)")
	pf.StringVar(&a.flags.dailyFineRate, "daily-fine-rate", "", "overdue fine per started day (env CIRCULATION_DAILY_FINE_RATE)")
	pf.StringVar(&a.flags.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC host:port for traces and metrics (env OTEL_EXPORTER_OTLP_ENDPOINT)")
	pf.StringVar(&a.flags.logLevel, "log-level", a.flags.logLevel, "debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", a.flags.logFormat, "text or json")
	pf.BoolVar(&a.flags.promptPassword, "prompt-password", false, "read the postgres password from the terminal")

	root.AddCommand(
		newMigrateCommand(a),
		newCheckoutCommand(a),
		newReturnCommand(a),
		newUpdateBorrowingCommand(a),
		newDeleteBorrowingCommand(a),
		newAccrueFinesCommand(a),
		newPayFineCommand(a),
		newWaiveFineCommand(a),
		newAssessFineCommand(a),
		newShowBorrowingCommand(a),
		newAddCopyCommand(a),
		newRegisterMemberCommand(a),
		newChangeCopyStatusCommand(a),
		newChangeMemberStatusCommand(a),
		newRemoveBookCommand(a),
	)

	return root
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			if err := a.engine.Migrate(ctx); err != nil {
				return err
			}

			return a.print(map[string]string{"outcome": outcomeApplied, "engine": a.runtime.Engine})
		}),
	}
}

func newCheckoutCommand(a *app) *cobra.Command {
	var member, barcode, dueDate, at string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Lend the copy with the given barcode to a member",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			memberID, err := parseID("member", member)
			if err != nil {
				return err
			}

			due, err := parseOptionalInstant("due-date", dueDate)
			if err != nil {
				return err
			}

			instant, err := a.parseInstant(flagAt, at)
			if err != nil {
				return err
			}

			return execute[checkout.Command, checkout.Result](ctx, a, checkout.NewCommandHandler(a.engine),
				checkout.BuildCommand(ownerID, memberID, barcode, due, instant))
		}),
	}

	cmd.Flags().StringVar(&member, "member", "", "member id")
	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode of the copy")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "RFC 3339 due date (default: 14 days from now)")
	cmd.Flags().StringVar(&at, flagAt, "", "RFC 3339 checkout time (default: now)")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("barcode")

	return cmd
}

func newReturnCommand(a *app) *cobra.Command {
	var borrowing, condition, at string

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a borrowed copy",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			borrowingID, err := parseID(flagBorrowing, borrowing)
			if err != nil {
				return err
			}

			instant, err := a.parseInstant(flagAt, at)
			if err != nil {
				return err
			}

			var newCondition *string
			if condition != "" {
				newCondition = &condition
			}

			return execute[returncopy.Command, returncopy.Result](ctx, a, returncopy.NewCommandHandler(a.engine),
				returncopy.BuildCommand(ownerID, borrowingID, newCondition, instant))
		}),
	}

	cmd.Flags().StringVar(&borrowing, flagBorrowing, "", "borrowing id")
	cmd.Flags().StringVar(&condition, "condition", "", "condition of the copy after return")
	cmd.Flags().StringVar(&at, flagAt, "", "RFC 3339 return time (default: now)")
	_ = cmd.MarkFlagRequired(flagBorrowing)

	return cmd
}

func newUpdateBorrowingCommand(a *app) *cobra.Command {
	var borrowing, dueDate, status, at string

	cmd := &cobra.Command{
		Use:   "update-borrowing",
		Short: "Change the due date or status of a borrowing",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			borrowingID, err := parseID(flagBorrowing, borrowing)
			if err != nil {
				return err
			}

			due, err := parseOptionalInstant("due-date", dueDate)
			if err != nil {
				return err
			}

			instant, err := a.parseInstant(flagAt, at)
			if err != nil {
				return err
			}

			var newStatus *circulation.BorrowingStatus
			if status != "" {
				s := circulation.BorrowingStatus(status)
				newStatus = &s
			}

			return execute[updateborrowing.Command, updateborrowing.Result](ctx, a, updateborrowing.NewCommandHandler(a.engine),
				updateborrowing.BuildCommand(ownerID, borrowingID, due, newStatus, instant))
		}),
	}

	cmd.Flags().StringVar(&borrowing, flagBorrowing, "", "borrowing id")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "new RFC 3339 due date")
	cmd.Flags().StringVar(&status, flagStatus, "", "new status: ACTIVE or RETURNED")
	cmd.Flags().StringVar(&at, flagAt, "", "RFC 3339 time of the change (default: now)")
	_ = cmd.MarkFlagRequired(flagBorrowing)

	return cmd
}

func newDeleteBorrowingCommand(a *app) *cobra.Command {
	var borrowing string

	cmd := &cobra.Command{
		Use:   "delete-borrowing",
		Short: "Delete a borrowing and its fines, releasing the copy if it was still out",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			borrowingID, err := parseID(flagBorrowing, borrowing)
			if err != nil {
				return err
			}

			return execute[deleteborrowing.Command, deleteborrowing.Result](ctx, a, deleteborrowing.NewCommandHandler(a.engine),
				deleteborrowing.BuildCommand(ownerID, borrowingID, a.now()))
		}),
	}

	cmd.Flags().StringVar(&borrowing, flagBorrowing, "", "borrowing id")
	_ = cmd.MarkFlagRequired(flagBorrowing)

	return cmd
}

func newAccrueFinesCommand(a *app) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "accrue-fines",
		Short: "Create or update OVERDUE fines for all overdue borrowings",
		Long:  "Without --owner (and CIRCULATION_OWNER_ID) every partition is swept.",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			instant, err := a.parseInstant("as-of", asOf)
			if err != nil {
				return err
			}

			return execute[accrueoverduefines.Command, accrueoverduefines.Result](ctx, a, accrueoverduefines.NewCommandHandler(a.engine),
				accrueoverduefines.BuildCommand(a.runtime.OwnerID, instant, a.runtime.DailyFineRate))
		}),
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "RFC 3339 accrual instant (default: now)")

	return cmd
}

func newPayFineCommand(a *app) *cobra.Command {
	var fine string

	cmd := &cobra.Command{
		Use:   "pay-fine",
		Short: "Mark a pending fine as paid",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			fineID, err := parseID(flagFine, fine)
			if err != nil {
				return err
			}

			return execute[payfine.Command, payfine.Result](ctx, a, payfine.NewCommandHandler(a.engine),
				payfine.BuildCommand(ownerID, fineID, a.now()))
		}),
	}

	cmd.Flags().StringVar(&fine, flagFine, "", "fine id")
	_ = cmd.MarkFlagRequired(flagFine)

	return cmd
}

func newWaiveFineCommand(a *app) *cobra.Command {
	var fine string

	cmd := &cobra.Command{
		Use:   "waive-fine",
		Short: "Waive a pending fine",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			fineID, err := parseID(flagFine, fine)
			if err != nil {
				return err
			}

			return execute[waivefine.Command, waivefine.Result](ctx, a, waivefine.NewCommandHandler(a.engine),
				waivefine.BuildCommand(ownerID, fineID, a.now()))
		}),
	}

	cmd.Flags().StringVar(&fine, flagFine, "", "fine id")
	_ = cmd.MarkFlagRequired(flagFine)

	return cmd
}

func newAssessFineCommand(a *app) *cobra.Command {
	var borrowing, reason, amount string

	cmd := &cobra.Command{
		Use:   "assess-fine",
		Short: "Charge a DAMAGE or LOST fine against a borrowing",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			borrowingID, err := parseID(flagBorrowing, borrowing)
			if err != nil {
				return err
			}

			value, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}

			return execute[assessfine.Command, assessfine.Result](ctx, a, assessfine.NewCommandHandler(a.engine),
				assessfine.BuildCommand(ownerID, borrowingID, circulation.FineReason(reason), value, a.now()))
		}),
	}

	cmd.Flags().StringVar(&borrowing, flagBorrowing, "", "borrowing id")
	cmd.Flags().StringVar(&reason, "reason", "", "DAMAGE or LOST")
	cmd.Flags().StringVar(&amount, "amount", "", "fine amount, e.g. 12.50")
	_ = cmd.MarkFlagRequired(flagBorrowing)
	_ = cmd.MarkFlagRequired("reason")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newShowBorrowingCommand(a *app) *cobra.Command {
	var borrowing, at string

	cmd := &cobra.Command{
		Use:   "show-borrowing",
		Short: "Print a borrowing with its member, copy, book and fines",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			borrowingID, err := parseID(flagBorrowing, borrowing)
			if err != nil {
				return err
			}

			instant, err := a.parseInstant(flagAt, at)
			if err != nil {
				return err
			}

			return query[borrowingdetails.Query, borrowingdetails.BorrowingDetails](ctx, a, borrowingdetails.NewQueryHandler(a.engine),
				borrowingdetails.BuildQuery(ownerID, borrowingID, instant))
		}),
	}

	cmd.Flags().StringVar(&borrowing, flagBorrowing, "", "borrowing id")
	cmd.Flags().StringVar(&at, flagAt, "", "RFC 3339 instant overdue days are counted to (default: now)")
	_ = cmd.MarkFlagRequired(flagBorrowing)

	return cmd
}

func newAddCopyCommand(a *app) *cobra.Command {
	var (
		book, copyID, barcode, condition, shelf string
		meta                                    addbookcopy.BookMetadata
		isbn                                    string
		year                                    int
	)

	cmd := &cobra.Command{
		Use:   "add-copy",
		Short: "Add a copy to a book, creating the book when --title is given",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			bookID, err := parseOptionalID("book", book)
			if err != nil {
				return err
			}

			newCopyID, err := parseOptionalID("copy", copyID)
			if err != nil {
				return err
			}

			if isbn != "" {
				meta.ISBN = &isbn
			}

			if year != 0 {
				meta.PublishedYear = &year
			}

			return execute[addbookcopy.Command, addbookcopy.Result](ctx, a, addbookcopy.NewCommandHandler(a.engine),
				addbookcopy.BuildCommand(ownerID, bookID, meta, newCopyID, barcode, condition, shelf, a.now()))
		}),
	}

	cmd.Flags().StringVar(&book, "book", "", "book id (default: a new book)")
	cmd.Flags().StringVar(&copyID, "copy", "", "copy id (default: generated)")
	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode of the new copy")
	cmd.Flags().StringVar(&condition, "condition", "", "condition of the copy (default: good)")
	cmd.Flags().StringVar(&shelf, "shelf", "", "shelf location")
	cmd.Flags().StringVar(&meta.Title, "title", "", "title, for a new book")
	cmd.Flags().StringVar(&meta.Author, "author", "", "author, for a new book")
	cmd.Flags().StringVar(&meta.Category, "category", "", "category, for a new book")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN, for a new book")
	cmd.Flags().IntVar(&year, "published-year", 0, "year of publication, for a new book")
	_ = cmd.MarkFlagRequired("barcode")

	return cmd
}

func newRegisterMemberCommand(a *app) *cobra.Command {
	var (
		member, name, email string
		maxBooks            int
	)

	cmd := &cobra.Command{
		Use:   "register-member",
		Short: "Register an ACTIVE member",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			memberID, err := parseOptionalID("member", member)
			if err != nil {
				return err
			}

			return execute[registermember.Command, registermember.Result](ctx, a, registermember.NewCommandHandler(a.engine),
				registermember.BuildCommand(ownerID, memberID, name, email, maxBooks, a.now()))
		}),
	}

	cmd.Flags().StringVar(&member, "member", "", "member id (default: generated)")
	cmd.Flags().StringVar(&name, "name", "", "member name")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	cmd.Flags().IntVar(&maxBooks, "max-books", 5, "maximum number of concurrent loans")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newChangeCopyStatusCommand(a *app) *cobra.Command {
	var copyID, status string

	cmd := &cobra.Command{
		Use:   "change-copy-status",
		Short: "Move a copy between AVAILABLE, MAINTENANCE and LOST",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			id, err := parseID("copy", copyID)
			if err != nil {
				return err
			}

			return execute[changecopystatus.Command, changecopystatus.Result](ctx, a, changecopystatus.NewCommandHandler(a.engine),
				changecopystatus.BuildCommand(ownerID, id, circulation.CopyStatus(status), a.now()))
		}),
	}

	cmd.Flags().StringVar(&copyID, "copy", "", "copy id")
	cmd.Flags().StringVar(&status, flagStatus, "", "AVAILABLE, MAINTENANCE or LOST")
	_ = cmd.MarkFlagRequired("copy")
	_ = cmd.MarkFlagRequired(flagStatus)

	return cmd
}

func newChangeMemberStatusCommand(a *app) *cobra.Command {
	var member, status string

	cmd := &cobra.Command{
		Use:   "change-member-status",
		Short: "Suspend, expire or reactivate a member",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			memberID, err := parseID("member", member)
			if err != nil {
				return err
			}

			return execute[changememberstatus.Command, changememberstatus.Result](ctx, a, changememberstatus.NewCommandHandler(a.engine),
				changememberstatus.BuildCommand(ownerID, memberID, circulation.MemberStatus(status), a.now()))
		}),
	}

	cmd.Flags().StringVar(&member, "member", "", "member id")
	cmd.Flags().StringVar(&status, flagStatus, "", "ACTIVE, SUSPENDED or EXPIRED")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired(flagStatus)

	return cmd
}

func newRemoveBookCommand(a *app) *cobra.Command {
	var book string

	cmd := &cobra.Command{
		Use:   "remove-book",
		Short: "Remove a book and its copies when none of them is on loan",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(ctx context.Context) error {
			ownerID, err := a.ownerID()
			if err != nil {
				return err
			}

			bookID, err := parseID("book", book)
			if err != nil {
				return err
			}

			return execute[removebook.Command, removebook.Result](ctx, a, removebook.NewCommandHandler(a.engine),
				removebook.BuildCommand(ownerID, bookID, a.now()))
		}),
	}

	cmd.Flags().StringVar(&book, "book", "", "book id")
	_ = cmd.MarkFlagRequired("book")

	return cmd
}
