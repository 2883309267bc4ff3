package books

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_AddBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	assert.Positive(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Empty(t, book.Summary)
	assert.False(t, book.CreatedAt.IsZero())

	// Round trip: re-read and compare field for field.
	got, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
	assert.Equal(t, book.Title, got.Title)
	assert.Equal(t, book.Author, got.Author)
	assert.Equal(t, book.Summary, got.Summary)
	assert.WithinDuration(t, book.CreatedAt, got.CreatedAt, 0)
}

func TestRepository_AddBook_Duplicate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	_, err = repo.AddBook("Dune", "Frank Herbert", "")
	assert.ErrorIs(t, err, ErrDuplicateBook)

	count, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_AddBook_SameTitleDifferentAuthor(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Collected Poems", "W. B. Yeats", "")
	require.NoError(t, err)

	_, err = repo.AddBook("Collected Poems", "Sylvia Plath", "")
	assert.NoError(t, err)
}

func TestRepository_AddBook_CaseVariantsAreDistinct(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	// Duplicate detection is exact match only.
	_, err = repo.AddBook("dune", "Frank Herbert", "")
	assert.NoError(t, err)
}

func TestRepository_GetBookByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetBookByID(42)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_FindBooksByTitle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Collected Poems", "W. B. Yeats", "")
	require.NoError(t, err)
	_, err = repo.AddBook("Collected Poems", "Sylvia Plath", "")
	require.NoError(t, err)
	_, err = repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	found, err := repo.FindBooksByTitle("Collected Poems")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "W. B. Yeats", found[0].Author)
	assert.Equal(t, "Sylvia Plath", found[1].Author)

	none, err := repo.FindBooksByTitle("Unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_GetAllBooks_InsertionOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, title := range []string{"B", "A", "C"} {
		_, err := repo.AddBook(title, "Author", "")
		require.NoError(t, err)
	}

	all, err := repo.GetAllBooks(SortCreated)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "B", all[0].Title)
	assert.Equal(t, "A", all[1].Title)
	assert.Equal(t, "C", all[2].Title)
}

func TestRepository_GetAllBooks_Sorting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Zebra Tales", "Alice Anderson", "")
	require.NoError(t, err)
	_, err = repo.AddBook("Apple Stories", "Bob Brown", "")
	require.NoError(t, err)
	_, err = repo.AddBook("Banana Chronicles", "Charlie Clark", "")
	require.NoError(t, err)
	_, err = repo.AddBook("Apple Stories 2", "Alice Anderson", "")
	require.NoError(t, err)

	t.Run("by title", func(t *testing.T) {
		all, err := repo.GetAllBooks(SortTitle)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Apple Stories", all[0].Title)
		assert.Equal(t, "Apple Stories 2", all[1].Title)
		assert.Equal(t, "Banana Chronicles", all[2].Title)
		assert.Equal(t, "Zebra Tales", all[3].Title)
	})

	t.Run("by author then title", func(t *testing.T) {
		all, err := repo.GetAllBooks(SortAuthor)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Alice Anderson", all[0].Author)
		assert.Equal(t, "Apple Stories 2", all[0].Title)
		assert.Equal(t, "Alice Anderson", all[1].Author)
		assert.Equal(t, "Zebra Tales", all[1].Title)
		assert.Equal(t, "Bob Brown", all[2].Author)
		assert.Equal(t, "Charlie Clark", all[3].Author)
	})

	t.Run("recent reverses insertion order", func(t *testing.T) {
		all, err := repo.GetAllBooks(SortRecent)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Apple Stories 2", all[0].Title)
		assert.Equal(t, "Zebra Tales", all[3].Title)
	})

	t.Run("unknown sort falls back to insertion order", func(t *testing.T) {
		all, err := repo.GetAllBooks(Sort("bogus"))
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Zebra Tales", all[0].Title)
	})
}

func TestRepository_UpdateSummary(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	err = repo.UpdateSummary(book.ID, "A desert planet epic.")
	require.NoError(t, err)

	got, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "A desert planet epic.", got.Summary)

	// Regeneration overwrites in place.
	err = repo.UpdateSummary(book.ID, "Spice, sandworms, prophecy.")
	require.NoError(t, err)

	got, err = repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spice, sandworms, prophecy.", got.Summary)
}

func TestRepository_UpdateSummary_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateSummary(42, "no such book")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	err = repo.DeleteBook(book.ID)
	require.NoError(t, err)

	_, err = repo.GetBookByID(book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	all, err := repo.GetAllBooks(SortCreated)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = repo.DeleteBook(book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_GetBooksMissingSummary(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Dune", "Frank Herbert", "Summary already present.")
	require.NoError(t, err)
	second, err := repo.AddBook("Hyperion", "Dan Simmons", "")
	require.NoError(t, err)
	third, err := repo.AddBook("Ubik", "Philip K. Dick", "")
	require.NoError(t, err)

	missing, err := repo.GetBooksMissingSummary(0)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, second.ID, missing[0].ID)
	assert.Equal(t, third.ID, missing[1].ID)

	capped, err := repo.GetBooksMissingSummary(1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, second.ID, capped[0].ID)
}

func TestStorageError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := storageErr("add book", inner)

	var storage *StorageError
	require.ErrorAs(t, err, &storage)
	assert.Equal(t, "add book", storage.Op)
	assert.ErrorIs(t, err, inner)
}
