package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/summarizer"
)

func setupTestRouter(t *testing.T, generator summarizer.Generator) (*gin.Engine, *books.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	repo := books.NewRepository(db.DB)
	router := NewRouter(RouterConfig{
		Repository: repo,
		Database:   db,
		Generator:  generator,
		Cooldown:   summarizer.NewCooldown(5 * time.Second),
		Version:    "test",
	})
	return router, repo
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBook(t *testing.T) {
	t.Run("creates a book from form data", func(t *testing.T) {
		router, repo := setupTestRouter(t, nil)

		w := postForm(router, "/api/books", url.Values{
			"title":  {"  Dune  "},
			"author": {"Frank Herbert"},
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Dune", book.Title)
		assert.NotZero(t, book.ID)

		stored, err := repo.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Frank Herbert", stored.Author)
	})

	t.Run("rejects invalid input with 400", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := postForm(router, "/api/books", url.Values{
			"title":  {""},
			"author": {"Frank Herbert"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = postForm(router, "/api/books", url.Values{
			"title":  {"<script>alert(1)</script>"},
			"author": {"Frank Herbert"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate returns 409", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		form := url.Values{"title": {"Dune"}, "author": {"Frank Herbert"}}
		w := postForm(router, "/api/books", form)
		require.Equal(t, http.StatusCreated, w.Code)

		w = postForm(router, "/api/books", form)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestListBooks(t *testing.T) {
	router, repo := setupTestRouter(t, nil)

	_, err := repo.AddBook("B Title", "Author One", "")
	require.NoError(t, err)
	_, err = repo.AddBook("A Title", "Author Two", "")
	require.NoError(t, err)

	t.Run("default order is insertion order", func(t *testing.T) {
		w := get(router, "/api/books")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []entities.Book `json:"books"`
			Count int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "B Title", response.Books[0].Title)
		assert.Equal(t, "A Title", response.Books[1].Title)
	})

	t.Run("sort by title", func(t *testing.T) {
		w := get(router, "/api/books?sort=title")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []entities.Book `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "A Title", response.Books[0].Title)
	})
}

func TestGetBook(t *testing.T) {
	router, repo := setupTestRouter(t, nil)
	book, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	t.Run("existing book", func(t *testing.T) {
		w := get(router, "/api/books/"+itoa(book.ID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing book returns 404", func(t *testing.T) {
		w := get(router, "/api/books/999")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		w := get(router, "/api/books/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = get(router, "/api/books/-1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteBook(t *testing.T) {
	router, repo := setupTestRouter(t, nil)
	book, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/books/"+itoa(book.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = repo.GetBookByID(book.ID)
	assert.ErrorIs(t, err, books.ErrBookNotFound)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/books/"+itoa(book.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchBooks(t *testing.T) {
	router, repo := setupTestRouter(t, nil)
	_, err := repo.AddBook("Dune", "Frank Herbert", "")
	require.NoError(t, err)
	_, err = repo.AddBook("Dune", "Brian Herbert", "")
	require.NoError(t, err)

	t.Run("exact title match", func(t *testing.T) {
		w := get(router, "/api/books/search?title=Dune")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Count)
	})

	t.Run("no partial matching", func(t *testing.T) {
		w := get(router, "/api/books/search?title=Dun")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 0, response.Count)
	})

	t.Run("missing title parameter returns 400", func(t *testing.T) {
		w := get(router, "/api/books/search")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegenerateSummary(t *testing.T) {
	t.Run("generates and stores a summary", func(t *testing.T) {
		mock := &summarizer.Mock{Summary: "A fresh summary."}
		router, repo := setupTestRouter(t, mock)
		book, err := repo.AddBook("Dune", "Frank Herbert", "Old summary.")
		require.NoError(t, err)

		w := postForm(router, "/api/books/"+itoa(book.ID)+"/summary", url.Values{})
		require.Equal(t, http.StatusOK, w.Code)

		stored, err := repo.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "A fresh summary.", stored.Summary)
	})

	t.Run("second request within the cooldown returns 429", func(t *testing.T) {
		mock := &summarizer.Mock{Summary: "A fresh summary."}
		router, repo := setupTestRouter(t, mock)
		book, err := repo.AddBook("Dune", "Frank Herbert", "")
		require.NoError(t, err)

		path := "/api/books/" + itoa(book.ID) + "/summary"
		w := postForm(router, path, url.Values{})
		require.Equal(t, http.StatusOK, w.Code)

		w = postForm(router, path, url.Values{})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("no generator configured returns 503", func(t *testing.T) {
		router, repo := setupTestRouter(t, nil)
		book, err := repo.AddBook("Dune", "Frank Herbert", "")
		require.NoError(t, err)

		w := postForm(router, "/api/books/"+itoa(book.ID)+"/summary", url.Values{})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("missing book returns 404", func(t *testing.T) {
		mock := &summarizer.Mock{Summary: "Irrelevant."}
		router, _ := setupTestRouter(t, mock)

		w := postForm(router, "/api/books/999/summary", url.Values{})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
