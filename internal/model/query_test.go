//nolint:errcheck
package model_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/internal/model"
)

var (
	review = model.New[Review]("reviews").
		AddSimpleField("id", func(t *Review) any { return &t.ID }).
		AddSimpleField("rating", func(t *Review) any { return &t.Rating }).
		AddSimpleField("book_id", func(t *Review) any { return &t.BookID }).
		ModifyQuery(model.OrderBy("id"))

	book = model.New[Book]("books").
		AddSimpleField("id", func(t *Book) any { return &t.ID }).
		AddSimpleField("title", func(t *Book) any { return &t.Title }).
		AddField("genre", model.Col("genre"), model.NullString(func(t *Book) **string { return &t.Genre })).
		AddSimpleField("shelf_id", func(t *Book) any { return &t.ShelfID }).
		ModifyQuery(model.OrderBy("id")).
		AddRelation("reviews",
			model.HasMany(review,
				func(book Book, review Review) bool { return review.BookID == book.ID },
				func(book *Book, reviews []Review) { book.Reviews = reviews },
				model.WhereIDs("book_id", func(book Book) int64 { return book.ID }),
				model.DependsOn("id", "reviews.book_id"),
			),
		)

	shelf = model.New[Shelf]("shelves").
		AddSimpleField("id", func(t *Shelf) any { return &t.ID }).
		AddSimpleField("name", func(t *Shelf) any { return &t.Name }).
		AddField(
			"labels",
			model.Col("labels"),
			func(t *Shelf) (model.Ptrs, model.Action) {
				var labels string
				return model.Ptrs{&labels}, func() {
					t.Labels = strings.Split(labels, ",")
				}
			},
		).
		ModifyQuery(model.OrderBy("id")).
		AddRelation("books",
			model.HasMany(book,
				func(shelf Shelf, book Book) bool { return book.ShelfID == shelf.ID },
				func(shelf *Shelf, books []Book) { shelf.Books = books },
				model.WhereIDs("shelf_id", func(s Shelf) int64 { return s.ID }),
				model.DependsOn("id", "books.shelf_id"),
			),
		)
)

func init() {
	review.AddRelation("book",
		model.HasOne(book,
			func(r Review, b Book) bool { return r.BookID == b.ID },
			func(r *Review, b Book) { r.Book = &b },
			model.WhereIDs("id", func(r Review) int64 { return r.BookID }),
			model.DependsOn("book_id", "book.id"),
		))
}

func seed(t *testing.T) *sql.DB {
	t.Helper()
	db, sq := setupDB(t)
	sq.Insert("shelves").
		Values(1, "Fiction", "novels,classics").
		Values(2, "Science", "physics").Exec()
	sq.Insert("books").
		Values(1, "Dune", "sf", 1).
		Values(2, "Emma", nil, 1).
		Values(3, "Cosmos", "popular", 2).
		Values(4, "QED", nil, 2).Exec()
	sq.Insert("reviews").
		Values(1, 5, 1).
		Values(2, 4, 1).
		Values(3, 3, 3).Exec()

	return db
}

func TestSchemaFieldSelection(t *testing.T) {
	db := seed(t)
	ctx := context.Background()

	t.Run("select fields", func(t *testing.T) {
		shelves, err := shelf.Query("id", "labels").Collect(ctx, db)
		require.NoError(t, err)

		require.Len(t, shelves, 2)
		for _, s := range shelves {
			assert.Empty(t, s.Name)
			assert.NotEmpty(t, s.ID)
			assert.NotEmpty(t, s.Labels)
		}
		assert.Equal(t, []string{"novels", "classics"}, shelves[0].Labels)
	})

	t.Run("select all by not providing fields", func(t *testing.T) {
		shelves, err := shelf.Query().Collect(ctx, db)
		require.NoError(t, err)

		require.Len(t, shelves, 2)
		assert.Equal(t, "Fiction", shelves[0].Name)
		assert.Equal(t, "Science", shelves[1].Name)
	})

	t.Run("nullable text stays nil", func(t *testing.T) {
		books, err := book.Query().Collect(ctx, db)
		require.NoError(t, err)

		require.Len(t, books, 4)
		require.NotNil(t, books[0].Genre)
		assert.Equal(t, "sf", *books[0].Genre)
		assert.Nil(t, books[1].Genre)
	})

	t.Run("query mods narrow the result", func(t *testing.T) {
		books, err := book.Query("id", "title").
			ModifyQuery(model.Where("shelf_id", 2)).
			Collect(ctx, db)
		require.NoError(t, err)

		require.Len(t, books, 2)
		assert.Equal(t, "Cosmos", books[0].Title)
		assert.Equal(t, "QED", books[1].Title)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		books, err := book.Query().
			ModifyQuery(model.Where("id", 99)).
			Collect(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("derived queries do not share selection", func(t *testing.T) {
		base := shelf.Query("id")
		_ = base.Select("name")

		shelves, err := base.Collect(ctx, db)
		require.NoError(t, err)
		require.Len(t, shelves, 2)
		assert.Empty(t, shelves[0].Name)
	})
}

func TestSchemaSelectionErrors(t *testing.T) {
	db := seed(t)
	ctx := context.Background()

	t.Run("unknown field", func(t *testing.T) {
		_, err := shelf.Query("id", "colour").Collect(ctx, db)
		assert.ErrorIs(t, err, model.ErrNoSuchField)
	})

	t.Run("unknown nested field", func(t *testing.T) {
		_, err := shelf.Query("books.isbn").Collect(ctx, db)
		assert.ErrorIs(t, err, model.ErrNoSuchField)
	})

	t.Run("nesting through a plain field", func(t *testing.T) {
		_, err := shelf.Query("name.first").Collect(ctx, db)
		assert.ErrorIs(t, err, model.ErrNoSuchRelation)
	})

	t.Run("errors are joined", func(t *testing.T) {
		err := shelf.Query("colour", "name.first").Err()
		assert.ErrorIs(t, err, model.ErrNoSuchField)
		assert.ErrorIs(t, err, model.ErrNoSuchRelation)
	})

	t.Run("check walks relations", func(t *testing.T) {
		assert.NoError(t, shelf.Check("books.reviews.rating"))
		assert.ErrorIs(t, shelf.Check("books.reviews.stars"), model.ErrNoSuchField)
	})
}

func TestCollectOne(t *testing.T) {
	db := seed(t)
	ctx := context.Background()

	t.Run("returns one item", func(t *testing.T) {
		s, err := shelf.Query().
			ModifyQuery(model.Where("id", 2)).
			CollectOne(ctx, db)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, int64(2), s.ID)
		assert.Equal(t, "Science", s.Name)
		assert.Empty(t, s.Books)
	})

	t.Run("errors on many returns", func(t *testing.T) {
		s, err := shelf.Query().CollectOne(ctx, db)
		assert.ErrorIs(t, err, model.ErrTooManyResults)
		assert.Nil(t, s)
	})

	t.Run("errors on no returns", func(t *testing.T) {
		s, err := shelf.Query().
			ModifyQuery(func(q model.Q, table string) model.Q { return q.Where("false") }).
			CollectOne(ctx, db)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, s)
	})
}
