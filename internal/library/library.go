// Package library holds the reader, book and review services. Each service
// borrows the storage handle per call and keeps no entities between calls.
package library

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"pollex.nl/bookshelf/internal/storage"
)

type Library struct {
	Books   *Books
	Readers *Readers
	Reviews *Reviews
}

func New(db *storage.DB, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}

	return &Library{
		Books:   &Books{db: db, logger: logger.With("service", "books")},
		Readers: &Readers{db: db, logger: logger.With("service", "readers")},
		Reviews: &Reviews{db: db, logger: logger.With("service", "reviews")},
	}
}

func builder(runner storage.Runner) squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.RunWith(runner)
}

// exists reports whether table has a row with the given id.
func exists(ctx context.Context, runner storage.Runner, table string, id int64) (bool, error) {
	var one int
	err := builder(runner).
		Select("1").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		QueryRowContext(ctx).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// nullable maps a missing optional value to SQL NULL.
func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
