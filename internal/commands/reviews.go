package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"pollex.nl/bookshelf/internal/library"
)

func newAddReviewCmd(a *app) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "add-review <book-id> <reader-name> <rating>",
		Short: "Add a review for a book",
		Long: `Add a review for a book.

The rating must be a whole number from 1 to 5 and the reader must already be
registered.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bookID, err := a.parseID("book", args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[2])
			if err != nil || library.ValidateRating(rating) != nil {
				return a.reportf("Rating must be between %d and %d.", library.MinRating, library.MaxRating)
			}

			lib, err := a.library(ctx)
			if err != nil {
				return err
			}

			book, err := lib.Books.Get(ctx, bookID)
			if errors.Is(err, library.ErrNotFound) {
				return a.reportf("Book with ID %d not found.", bookID)
			}
			if err != nil {
				return err
			}

			reader, err := lib.Readers.GetByName(ctx, args[1])
			if errors.Is(err, library.ErrNotFound) {
				return a.reportf("Reader '%s' not found. Please register first.", args[1])
			}
			if err != nil {
				return err
			}

			review, err := lib.Reviews.Add(ctx, book.ID, reader.ID, rating, comment)
			if err != nil {
				return a.check(err)
			}

			if a.out.JSON() {
				review.Book, review.Reader = book, reader
				return a.out.Encode(review)
			}
			a.out.Success("Review added for '%s' by %s!", book.Title, reader.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Review comment")

	return cmd
}

func newBookReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book-reviews <book-id>",
		Short: "View all reviews for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := a.parseID("book", args[0])
			if err != nil {
				return err
			}

			lib, err := a.library(ctx)
			if err != nil {
				return err
			}

			book, err := lib.Books.Get(ctx, id)
			if errors.Is(err, library.ErrNotFound) {
				return a.reportf("Book with ID %d not found.", id)
			}
			if err != nil {
				return err
			}

			reviews, err := lib.Reviews.ForBook(ctx, id)
			if err != nil {
				return err
			}

			if a.out.JSON() {
				return a.out.Encode(struct {
					Book    *library.Book    `json:"book"`
					Reviews []library.Review `json:"reviews"`
				}{book, emptyIfNil(reviews)})
			}

			a.out.Section(fmt.Sprintf("Reviews for '%s' by %s:", book.Title, book.Author))
			if len(reviews) == 0 {
				a.out.Muted("No reviews found for this book.")
				return nil
			}
			for _, review := range reviews {
				name := "unknown reader"
				if review.Reader != nil {
					name = review.Reader.Name
				}
				a.out.Line("Rating: %d/5 by %s%s", review.Rating, name, commentSuffix(review.Comment))
			}
			return nil
		},
	}
}
