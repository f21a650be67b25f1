package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/internal/storage"
)

func openDB(t *testing.T) (*storage.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.db")

	db, err := storage.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, path
}

func countRows(t *testing.T, db *storage.DB, table string) int {
	t.Helper()
	var n int
	err := squirrel.StatementBuilder.RunWith(db.Runner()).
		Select("COUNT(*)").From(table).
		QueryRow().Scan(&n)
	require.NoError(t, err)
	return n
}

func TestOpenCreatesSchema(t *testing.T) {
	db, path := openDB(t)

	_, err := os.Stat(path)
	require.NoError(t, err, "database file should be created")

	for _, table := range []string{"readers", "books", "reviews"} {
		assert.Equal(t, 0, countRows(t, db, table), table)
	}

	version, dirty, err := db.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	assert.Equal(t, path, db.Path())
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library.db")

	first, err := storage.Open(ctx, path)
	require.NoError(t, err)
	_, err = first.Runner().ExecContext(ctx, `INSERT INTO readers (name) VALUES ('Alice')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := storage.Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 1, countRows(t, second, "readers"))
}

func TestOpenUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "library.db")

	db, err := storage.Open(context.Background(), path)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Nil(t, db)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db, _ := openDB(t)
		err := db.WithTx(ctx, func(tx storage.Runner) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO readers (name) VALUES ('Alice')`)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countRows(t, db, "readers"))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, _ := openDB(t)
		boom := errors.New("boom")
		err := db.WithTx(ctx, func(tx storage.Runner) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO readers (name) VALUES ('Alice')`); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, countRows(t, db, "readers"))
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db, _ := openDB(t)
		assert.Panics(t, func() {
			_ = db.WithTx(ctx, func(tx storage.Runner) error {
				_, _ = tx.ExecContext(ctx, `INSERT INTO readers (name) VALUES ('Alice')`)
				panic("boom")
			})
		})
		assert.Equal(t, 0, countRows(t, db, "readers"))
	})
}

func TestSchemaConstraints(t *testing.T) {
	ctx := context.Background()
	db, _ := openDB(t)
	run := db.Runner()

	_, err := run.ExecContext(ctx, `INSERT INTO readers (id, name) VALUES (1, 'Alice')`)
	require.NoError(t, err)
	_, err = run.ExecContext(ctx, `INSERT INTO books (id, title, author) VALUES (1, 'Dune', 'Herbert')`)
	require.NoError(t, err)

	t.Run("reader names are unique", func(t *testing.T) {
		_, err := run.ExecContext(ctx, `INSERT INTO readers (name) VALUES ('Alice')`)
		assert.Error(t, err)
	})

	t.Run("rating is checked", func(t *testing.T) {
		_, err := run.ExecContext(ctx, `INSERT INTO reviews (book_id, reader_id, rating) VALUES (1, 1, 6)`)
		assert.Error(t, err)
	})

	t.Run("foreign keys are enforced", func(t *testing.T) {
		_, err := run.ExecContext(ctx, `INSERT INTO reviews (book_id, reader_id, rating) VALUES (42, 1, 3)`)
		assert.Error(t, err)
	})

	t.Run("deleting a book cascades to its reviews", func(t *testing.T) {
		_, err := run.ExecContext(ctx, `INSERT INTO reviews (book_id, reader_id, rating) VALUES (1, 1, 4)`)
		require.NoError(t, err)

		_, err = run.ExecContext(ctx, `DELETE FROM books WHERE id = 1`)
		require.NoError(t, err)
		assert.Equal(t, 0, countRows(t, db, "reviews"))
	})
}
