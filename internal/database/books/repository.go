// Package books provides database operations over the books table.
//
// Inputs are assumed to be validated already (internal/validation); the
// schema constraints and the duplicate check here are defense in depth, not
// a substitute for the validation layer.
package books

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Sort orders accepted by GetAllBooks. Anything unrecognized falls back to
// SortCreated.
type Sort string

const (
	SortCreated Sort = "created" // insertion order, the default
	SortRecent  Sort = "recent"  // newest first
	SortTitle   Sort = "title"
	SortAuthor  Sort = "author"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddBook inserts a new book and returns it with its assigned ID and
// creation timestamp. This is the only creation path. Returns
// ErrDuplicateBook when the (title, author) pair already exists.
func (r *Repository) AddBook(title, author, summary string) (*entities.Book, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("title = ? AND author = ?", title, author).
		Count(&count).Error
	if err != nil {
		return nil, storageErr("add book", err)
	}
	if count > 0 {
		return nil, ErrDuplicateBook
	}

	book := &entities.Book{
		Title:   title,
		Author:  author,
		Summary: summary,
	}
	if err := r.db.Create(book).Error; err != nil {
		// The unique index catches races the pre-check missed.
		if isUniqueConstraintErr(err) {
			return nil, ErrDuplicateBook
		}
		return nil, storageErr("add book", err)
	}

	return book, nil
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, storageErr("get book", err)
	}
	return &book, nil
}

// FindBooksByTitle returns all books whose title matches exactly, in
// insertion order. Shells use this to disambiguate authors when several
// books share a title.
func (r *Repository) FindBooksByTitle(title string) ([]entities.Book, error) {
	var found []entities.Book
	err := r.db.Where("title = ?", title).
		Order("created_at ASC, id ASC").
		Find(&found).Error
	if err != nil {
		return nil, storageErr("find books by title", err)
	}
	return found, nil
}

// GetAllBooks returns a fresh snapshot of every book in the requested
// order.
func (r *Repository) GetAllBooks(sort Sort) ([]entities.Book, error) {
	var all []entities.Book
	err := r.db.Order(orderClause(sort)).Find(&all).Error
	if err != nil {
		return nil, storageErr("list books", err)
	}
	return all, nil
}

// UpdateSummary overwrites a book's summary in place. Besides creation this
// is the only mutation path.
func (r *Repository) UpdateSummary(id uint, summary string) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Update("summary", summary)
	if result.Error != nil {
		return storageErr("update summary", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a book permanently. There is no soft delete.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return storageErr("delete book", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetBooksMissingSummary returns books without a generated summary, oldest
// first, optionally capped at limit.
func (r *Repository) GetBooksMissingSummary(limit int) ([]entities.Book, error) {
	query := r.db.Where("summary = '' OR summary IS NULL").
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var missing []entities.Book
	if err := query.Find(&missing).Error; err != nil {
		return nil, storageErr("list books missing summary", err)
	}
	return missing, nil
}

// CountBooks returns the total number of books on the shelf.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return 0, storageErr("count books", err)
	}
	return count, nil
}

func orderClause(sort Sort) string {
	switch sort {
	case SortRecent:
		return "created_at DESC, id DESC"
	case SortTitle:
		return "title ASC, author ASC"
	case SortAuthor:
		return "author ASC, title ASC"
	default:
		return "created_at ASC, id ASC"
	}
}

func isUniqueConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
