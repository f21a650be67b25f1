package library

import "pollex.nl/bookshelf/internal/model"

var readerSchema = model.New[Reader]("readers").
	AddSimpleField("id", func(t *Reader) any { return &t.ID }).
	AddSimpleField("name", func(t *Reader) any { return &t.Name }).
	ModifyQuery(model.OrderBy("id"))

var bookSchema = model.New[Book]("books").
	AddSimpleField("id", func(t *Book) any { return &t.ID }).
	AddSimpleField("title", func(t *Book) any { return &t.Title }).
	AddSimpleField("author", func(t *Book) any { return &t.Author }).
	AddField("genre", model.Col("genre"), model.NullString(func(t *Book) **string { return &t.Genre })).
	ModifyQuery(model.OrderBy("id"))

var reviewSchema = model.New[Review]("reviews").
	AddSimpleField("id", func(t *Review) any { return &t.ID }).
	AddSimpleField("book_id", func(t *Review) any { return &t.BookID }).
	AddSimpleField("reader_id", func(t *Review) any { return &t.ReaderID }).
	AddSimpleField("rating", func(t *Review) any { return &t.Rating }).
	AddField("comment", model.Col("comment"), model.NullString(func(t *Review) **string { return &t.Comment })).
	ModifyQuery(model.OrderBy("id")).
	AddRelation("book",
		model.HasOne(bookSchema,
			func(r Review, b Book) bool { return r.BookID == b.ID },
			func(r *Review, b Book) { r.Book = &b },
			model.WhereIDs("id", func(r Review) int64 { return r.BookID }),
			model.DependsOn("book_id", "book.id"),
		),
	).
	AddRelation("reader",
		model.HasOne(readerSchema,
			func(r Review, rd Reader) bool { return r.ReaderID == rd.ID },
			func(r *Review, rd Reader) { r.Reader = &rd },
			model.WhereIDs("id", func(r Review) int64 { return r.ReaderID }),
			model.DependsOn("reader_id", "reader.id"),
		),
	)
