package library

import (
	"context"
	"fmt"
	"log/slog"

	"pollex.nl/bookshelf/internal/model"
	"pollex.nl/bookshelf/internal/storage"
)

type Reviews struct {
	db     *storage.DB
	logger *slog.Logger
}

// Add records a review. The rating is validated before touching the
// database, and both the book and the reader must exist.
func (s *Reviews) Add(ctx context.Context, bookID, readerID int64, rating int, comment string) (*Review, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	c, err := optional("comment", comment, 0)
	if err != nil {
		return nil, err
	}

	review := &Review{BookID: bookID, ReaderID: readerID, Rating: rating, Comment: c}
	err = s.db.WithTx(ctx, func(tx storage.Runner) error {
		if ok, err := exists(ctx, tx, "books", bookID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: book %d", ErrNotFound, bookID)
		}
		if ok, err := exists(ctx, tx, "readers", readerID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: reader %d", ErrNotFound, readerID)
		}

		res, err := builder(tx).
			Insert("reviews").
			Columns("book_id", "reader_id", "rating", "comment").
			Values(review.BookID, review.ReaderID, review.Rating, nullable(review.Comment)).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		review.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}

	s.logger.Debug("added review",
		"review_id", review.ID,
		"book_id", bookID,
		"reader_id", readerID,
		"rating", rating,
	)

	return review, nil
}

// ForBook lists the reviews of a book, oldest first, each with its reader
// attached.
func (s *Reviews) ForBook(ctx context.Context, bookID int64) ([]Review, error) {
	reviews, err := reviewSchema.Query("*", "reader").
		ModifyQuery(model.Where("book_id", bookID)).
		Collect(ctx, s.db.Runner())
	if err != nil {
		return nil, fmt.Errorf("book %d reviews: %w", bookID, err)
	}

	return reviews, nil
}
