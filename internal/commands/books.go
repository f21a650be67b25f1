package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"pollex.nl/bookshelf/internal/library"
)

func newAddBookCmd(a *app) *cobra.Command {
	var genre string

	cmd := &cobra.Command{
		Use:   "add-book <title> <author>",
		Short: "Add a new book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			book, err := lib.Books.Add(cmd.Context(), args[0], args[1], genre)
			if err != nil {
				return a.check(err)
			}

			if a.out.JSON() {
				return a.out.Encode(book)
			}
			a.out.Success("Book '%s' by %s added successfully!", book.Title, book.Author)
			return nil
		},
	}
	cmd.Flags().StringVar(&genre, "genre", "", "Book genre")

	return cmd
}

func newListBooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			books, err := lib.Books.List(cmd.Context())
			if err != nil {
				return err
			}

			if a.out.JSON() {
				return a.out.Encode(emptyIfNil(books))
			}
			if len(books) == 0 {
				a.out.Muted("No books found.")
				return nil
			}

			a.out.Section("All Books:")
			for _, book := range books {
				genre := ""
				if book.Genre != nil {
					genre = " (" + *book.Genre + ")"
				}
				a.out.Line("ID: %d - %s by %s%s", book.ID, book.Title, book.Author, genre)
			}
			return nil
		},
	}
}

func newDeleteBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-book <book-id>",
		Short: "Delete a book and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.parseID("book", args[0])
			if err != nil {
				return err
			}

			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			deleted, err := lib.Books.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return a.reportf("Book with ID %d not found.", id)
			}

			if a.out.JSON() {
				return a.out.Encode(map[string]any{"id": id, "deleted": true})
			}
			a.out.Success("Book with ID %d deleted successfully!", id)
			return nil
		},
	}
}

func newBookStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book-stats <book-id>",
		Short: "View statistics for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.parseID("book", args[0])
			if err != nil {
				return err
			}

			lib, err := a.library(cmd.Context())
			if err != nil {
				return err
			}

			stats, err := lib.Books.Stats(cmd.Context(), id)
			if errors.Is(err, library.ErrNotFound) {
				return a.reportf("Book with ID %d not found.", id)
			}
			if err != nil {
				return err
			}

			if a.out.JSON() {
				return a.out.Encode(stats)
			}
			a.out.Section(fmt.Sprintf("Statistics for '%s' by %s:", stats.Book.Title, stats.Book.Author))
			a.out.Line("Total Reviews: %d", stats.ReviewCount)
			a.out.Line("Average Rating: %.2f/5", stats.AverageRating)
			return nil
		},
	}
}
