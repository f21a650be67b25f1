package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pollex.nl/bookshelf/internal/model"
	"pollex.nl/bookshelf/internal/storage"
)

type Readers struct {
	db     *storage.DB
	logger *slog.Logger
}

// Register returns the reader with this name, creating it first if needed.
// Registering an existing name returns the stored reader unchanged.
func (s *Readers) Register(ctx context.Context, name string) (*Reader, error) {
	name, err := required("name", name, maxReaderName)
	if err != nil {
		return nil, err
	}

	var reader *Reader
	err = s.db.WithTx(ctx, func(tx storage.Runner) error {
		res, err := builder(tx).
			Insert("readers").
			Columns("name").
			Values(name).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ExecContext(ctx)
		if err != nil {
			return err
		}

		reader, err = readerSchema.Query().
			ModifyQuery(model.Where("name", name)).
			CollectOne(ctx, tx)
		if err != nil {
			return err
		}

		if n, err := res.RowsAffected(); err == nil && n == 0 {
			s.logger.Debug("reader already registered", "reader_id", reader.ID, "name", name)
		} else {
			s.logger.Debug("registered reader", "reader_id", reader.ID, "name", name)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register reader %q: %w", name, err)
	}

	return reader, nil
}

func (s *Readers) GetByName(ctx context.Context, name string) (*Reader, error) {
	name = strings.TrimSpace(name)

	reader, err := readerSchema.Query().
		ModifyQuery(model.Where("name", name)).
		CollectOne(ctx, s.db.Runner())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reader %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get reader %q: %w", name, err)
	}

	return reader, nil
}

// Reviews lists the reviews written by a reader, oldest first, each with the
// reviewed book attached.
func (s *Readers) Reviews(ctx context.Context, readerID int64) ([]Review, error) {
	reviews, err := reviewSchema.Query("*", "book").
		ModifyQuery(model.Where("reader_id", readerID)).
		Collect(ctx, s.db.Runner())
	if err != nil {
		return nil, fmt.Errorf("reader %d reviews: %w", readerID, err)
	}

	return reviews, nil
}
