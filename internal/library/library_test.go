package library_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pollex.nl/bookshelf/internal/library"
	"pollex.nl/bookshelf/internal/storage"
)

func setupLibrary(t testing.TB) *library.Library {
	t.Helper()

	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return library.New(db, nil)
}

func addBook(t testing.TB, lib *library.Library, title, author string) *library.Book {
	t.Helper()
	book, err := lib.Books.Add(context.Background(), title, author, "")
	require.NoError(t, err)
	return book
}

func register(t testing.TB, lib *library.Library, name string) *library.Reader {
	t.Helper()
	reader, err := lib.Readers.Register(context.Background(), name)
	require.NoError(t, err)
	return reader
}
