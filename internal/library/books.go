package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Masterminds/squirrel"
	"pollex.nl/bookshelf/internal/model"
	"pollex.nl/bookshelf/internal/storage"
)

type Books struct {
	db     *storage.DB
	logger *slog.Logger
}

// Add catalogs a book. Title and author are required, genre may be empty.
// Books are not deduplicated.
func (s *Books) Add(ctx context.Context, title, author, genre string) (*Book, error) {
	title, err := required("title", title, maxTitle)
	if err != nil {
		return nil, err
	}
	author, err = required("author", author, maxAuthor)
	if err != nil {
		return nil, err
	}
	g, err := optional("genre", genre, maxGenre)
	if err != nil {
		return nil, err
	}

	book := &Book{Title: title, Author: author, Genre: g}
	err = s.db.WithTx(ctx, func(tx storage.Runner) error {
		res, err := builder(tx).
			Insert("books").
			Columns("title", "author", "genre").
			Values(book.Title, book.Author, nullable(book.Genre)).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		book.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add book: %w", err)
	}

	s.logger.Debug("added book", "book_id", book.ID, "title", book.Title)

	return book, nil
}

// List returns every book in the order they were added.
func (s *Books) List(ctx context.Context) ([]Book, error) {
	books, err := bookSchema.Query().Collect(ctx, s.db.Runner())
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

func (s *Books) Get(ctx context.Context, id int64) (*Book, error) {
	return getBook(ctx, s.db.Runner(), id)
}

func getBook(ctx context.Context, runner storage.Runner, id int64) (*Book, error) {
	book, err := bookSchema.Query().
		ModifyQuery(model.Where("id", id)).
		CollectOne(ctx, runner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	return book, nil
}

// Delete removes the book together with its reviews. It reports false when
// there was no such book.
func (s *Books) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.db.WithTx(ctx, func(tx storage.Runner) error {
		reviews, err := builder(tx).
			Delete("reviews").
			Where(squirrel.Eq{"book_id": id}).
			ExecContext(ctx)
		if err != nil {
			return err
		}

		res, err := builder(tx).
			Delete("books").
			Where(squirrel.Eq{"id": id}).
			ExecContext(ctx)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0

		if removed, err := reviews.RowsAffected(); err == nil && deleted {
			s.logger.Debug("deleted book", "book_id", id, "reviews", removed)
		}

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}

	return deleted, nil
}

// Stats counts the reviews of a book and averages their ratings, rounded to
// two decimals. A book without reviews has count and average 0.
func (s *Books) Stats(ctx context.Context, id int64) (*BookStats, error) {
	runner := s.db.Runner()

	book, err := getBook(ctx, runner, id)
	if err != nil {
		return nil, err
	}

	var (
		count   int
		average float64
	)
	err = builder(runner).
		Select("COUNT(*)", "COALESCE(AVG(rating), 0)").
		From("reviews").
		Where(squirrel.Eq{"book_id": id}).
		QueryRowContext(ctx).
		Scan(&count, &average)
	if err != nil {
		return nil, fmt.Errorf("book stats %d: %w", id, err)
	}

	return &BookStats{
		Book:          *book,
		ReviewCount:   count,
		AverageRating: roundRating(average),
	}, nil
}

func roundRating(average float64) float64 {
	return math.Round(average*100) / 100
}
