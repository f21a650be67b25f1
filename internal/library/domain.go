package library

type Reader struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  *string `json:"genre,omitempty"`
}

type Review struct {
	ID       int64   `json:"id"`
	BookID   int64   `json:"book_id"`
	ReaderID int64   `json:"reader_id"`
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment,omitempty"`

	// Set only when the listing resolves them.
	Book   *Book   `json:"book,omitempty"`
	Reader *Reader `json:"reader,omitempty"`
}

// BookStats summarises the reviews of one book.
type BookStats struct {
	Book          Book    `json:"book"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}
