package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"pollex.nl/bookshelf/internal/library"
)

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new reader",
		Long: `Register a new reader.

Registering a name that already exists succeeds and leaves the reader as it was.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			reader, err := lib.Readers.Register(cmd.Context(), args[0])
			if err != nil {
				return a.check(err)
			}

			if a.out.JSON() {
				return a.out.Encode(reader)
			}
			a.out.Success("Reader '%s' registered successfully!", reader.Name)
			return nil
		},
	}
}

func newReaderReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reader-reviews <reader-name>",
		Short: "View all reviews by a reader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			lib, err := a.library(ctx)
			if err != nil {
				return err
			}

			reader, err := lib.Readers.GetByName(ctx, args[0])
			if errors.Is(err, library.ErrNotFound) {
				return a.reportf("Reader '%s' not found.", args[0])
			}
			if err != nil {
				return err
			}

			reviews, err := lib.Readers.Reviews(ctx, reader.ID)
			if err != nil {
				return err
			}

			if a.out.JSON() {
				return a.out.Encode(struct {
					Reader  *library.Reader  `json:"reader"`
					Reviews []library.Review `json:"reviews"`
				}{reader, emptyIfNil(reviews)})
			}

			a.out.Section(fmt.Sprintf("Reviews by %s:", reader.Name))
			if len(reviews) == 0 {
				a.out.Muted("No reviews found for this reader.")
				return nil
			}
			for _, review := range reviews {
				if review.Book == nil {
					continue
				}
				a.out.Line("'%s' by %s: %d/5%s",
					review.Book.Title, review.Book.Author, review.Rating, commentSuffix(review.Comment))
			}
			return nil
		},
	}
}
