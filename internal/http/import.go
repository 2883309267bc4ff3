package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/parser"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// ImportController handles bulk imports from uploaded book lists.
type ImportController struct {
	repo       *books.Repository
	taskClient *tasks.Client
}

func NewImportController(repo *books.Repository, taskClient *tasks.Client) *ImportController {
	return &ImportController{
		repo:       repo,
		taskClient: taskClient,
	}
}

// ImportResponse reports the outcome of a bulk import.
type ImportResponse struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// Import handles POST /api/import. Accepts a multipart .txt upload of one
// book per line. Entries without an author are skipped; duplicates are
// counted but do not fail the import.
func (controller *ImportController) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "no file uploaded")
		return
	}

	if _, err := validation.Filename(fileHeader.Filename); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validation.FileSize(fileHeader.Size); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, validation.MaxFileSize+1))
	if err != nil {
		respondInternalError(c, err, "read upload")
		return
	}
	if err := validation.FileSize(int64(len(content))); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validation.FileContent(content); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	entries, err := parser.ParseBookList(bytes.NewReader(content))
	if err != nil {
		respondBadRequest(c, "could not parse book list")
		return
	}
	if len(entries) == 0 {
		respondBadRequest(c, "no books found in file")
		return
	}

	var result ImportResponse
	for _, entry := range entries {
		if entry.Author == "" {
			result.Skipped++
			continue
		}

		title, err := validation.Title(entry.Title)
		if err != nil {
			result.Skipped++
			continue
		}
		author, err := validation.Author(entry.Author)
		if err != nil {
			result.Skipped++
			continue
		}

		book, err := controller.repo.AddBook(title, author, "")
		if errors.Is(err, books.ErrDuplicateBook) {
			result.Duplicates++
			continue
		}
		if err != nil {
			respondInternalError(c, err, "import books")
			return
		}

		result.Added++
		if controller.taskClient != nil {
			_, _ = controller.taskClient.Add(tasks.GenerateSummaryTask{BookID: book.ID}).Save()
		}
	}

	c.IndentedJSON(http.StatusOK, result)
}
