package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadFile(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	return w
}

func TestImport(t *testing.T) {
	t.Run("imports books from a list", func(t *testing.T) {
		router, repo := setupTestRouter(t, nil)

		content := "# my reading list\n" +
			"Dune by Frank Herbert\n" +
			"Neuromancer - William Gibson\n" +
			"\n" +
			"Some Lonely Title\n"

		w := uploadFile(t, router, "books.txt", content)
		require.Equal(t, http.StatusOK, w.Code)

		var response ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Added)
		assert.Equal(t, 0, response.Duplicates)
		assert.Equal(t, 1, response.Skipped, "authorless entries are skipped")

		count, err := repo.CountBooks()
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("duplicates are counted, not fatal", func(t *testing.T) {
		router, repo := setupTestRouter(t, nil)
		_, err := repo.AddBook("Dune", "Frank Herbert", "")
		require.NoError(t, err)

		w := uploadFile(t, router, "books.txt", "Dune by Frank Herbert\nHyperion by Dan Simmons\n")
		require.Equal(t, http.StatusOK, w.Code)

		var response ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Added)
		assert.Equal(t, 1, response.Duplicates)
	})

	t.Run("rejects non-txt uploads", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := uploadFile(t, router, "books.pdf", "Dune by Frank Herbert\n")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects binary content", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := uploadFile(t, router, "books.txt", "Dune\x00by Frank Herbert\n")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file returns 400", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/import", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty list returns 400", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := uploadFile(t, router, "books.txt", "# nothing here\n\n")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
