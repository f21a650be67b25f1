// Package commands maps the bookshelf command line onto the library services.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"pollex.nl/bookshelf/internal/config"
	"pollex.nl/bookshelf/internal/library"
	"pollex.nl/bookshelf/internal/output"
	"pollex.nl/bookshelf/internal/storage"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("already reported")

type app struct {
	cfg    config.Config
	out    *output.Printer
	logger *slog.Logger

	db  *storage.DB
	lib *library.Library
}

// library opens the database on first use.
func (a *app) library(ctx context.Context) (*library.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}

	db, err := storage.Open(ctx, a.cfg.DBPath, storage.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.db = db
	a.lib = library.New(db, a.logger)

	return a.lib, nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db, a.lib = nil, nil
	return err
}

// reportf prints a user-facing failure and returns errReported.
func (a *app) reportf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if a.out.JSON() {
		if err := a.out.Encode(map[string]string{"error": msg}); err != nil {
			return err
		}
		return errReported
	}
	a.out.Error("%s", msg)
	return errReported
}

// check reports validation failures to the user and passes anything else on.
func (a *app) check(err error) error {
	var verr *library.ValidationError
	if errors.As(err, &verr) {
		return a.reportf("%s", capitalize(verr.Error()))
	}
	return err
}

func (a *app) parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, a.reportf("Invalid %s ID: %q", kind, arg)
	}
	return id, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// emptyIfNil keeps JSON listings as [] rather than null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func commentSuffix(comment *string) string {
	if comment == nil {
		return ""
	}
	return " - " + *comment
}
