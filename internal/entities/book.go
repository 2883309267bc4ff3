package entities

import (
	"time"
)

// Book is a single title/author/summary record on the shelf.
//
// (title, author) pairs are unique across all rows; the match is exact and
// case-sensitive after trimming. Summary is empty until a generation attempt
// succeeds.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:500;not null;index;uniqueIndex:idx_books_title_author" json:"title"`
	Author    string    `gorm:"size:200;not null;uniqueIndex:idx_books_title_author" json:"author"`
	Summary   string    `gorm:"size:10000" json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasSummary reports whether a summary has been generated for the book.
func (b *Book) HasSummary() bool {
	return b.Summary != ""
}
