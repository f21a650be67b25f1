package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"pollex.nl/bookshelf/internal/config"
	"pollex.nl/bookshelf/internal/output"
)

const version = "0.1.0"

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "Book Review CLI - track and manage your reading history",
		Long: `bookshelf keeps a small library's readers, books and reviews in a local
sqlite file.

Readers register once by name, books are catalogued with a title, author and
optional genre, and reviews rate a book from 1 to 5 stars with an optional
comment. The database file is created on first use.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.out = output.New(cmd.OutOrStdout(), a.cfg.JSON)
			a.logger = a.cfg.Logger(cmd.ErrOrStderr())
			slog.SetDefault(a.logger)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "Path to the sqlite database file (env "+config.EnvDBPath+")")
	flags.BoolVarP(&a.cfg.Verbose, "verbose", "v", a.cfg.Verbose, "Log debug output to stderr")
	flags.BoolVar(&a.cfg.JSON, "json", a.cfg.JSON, "Output in JSON format")

	cmd.AddCommand(
		newRegisterCmd(a),
		newAddBookCmd(a),
		newListBooksCmd(a),
		newDeleteBookCmd(a),
		newAddReviewCmd(a),
		newBookReviewsCmd(a),
		newReaderReviewsCmd(a),
		newBookStatsCmd(a),
		newMigrateCmd(a),
	)

	return cmd
}

// Run executes one command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{cfg: config.FromEnv()}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		fmt.Fprintln(stderr, "Error: closing database:", closeErr)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errReported):
		return 1
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

// Execute runs the command line of the current process and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
