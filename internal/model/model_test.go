package model_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type Shelf struct {
	ID     int64
	Name   string
	Labels []string
	Books  []Book
}

type Book struct {
	ID      int64
	Title   string
	Genre   *string
	ShelfID int64
	Reviews []Review
	Shelf   *Shelf
}

type Review struct {
	ID     int64
	Rating int
	BookID int64
	Book   *Book
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "model.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sq := squirrel.StatementBuilder.RunWith(db)

	return db, sq
}

const migrate = `
	create table shelves (
		id integer not null,
		name text not null,
		labels text not null
	);
	create table books (
		id integer not null,
		title text not null,
		genre text,
		shelf_id integer
	);
	create table reviews (
		id integer not null,
		rating integer not null,
		book_id integer
	);
	`
