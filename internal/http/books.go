package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/summarizer"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// BooksController serves the books API.
type BooksController struct {
	repo       *books.Repository
	generator  summarizer.Generator
	cooldown   *summarizer.Cooldown
	taskClient *tasks.Client
}

func NewBooksController(repo *books.Repository, generator summarizer.Generator, cooldown *summarizer.Cooldown, taskClient *tasks.Client) *BooksController {
	return &BooksController{
		repo:       repo,
		generator:  generator,
		cooldown:   cooldown,
		taskClient: taskClient,
	}
}

// ListBooks handles GET /api/books. The optional sort query parameter
// accepts created (default), recent, title and author.
func (controller *BooksController) ListBooks(c *gin.Context) {
	sort := books.Sort(c.Query("sort"))

	all, err := controller.repo.GetAllBooks(sort)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": all, "count": len(all)})
}

type createBookRequest struct {
	Title   string `form:"title" json:"title"`
	Author  string `form:"author" json:"author"`
	Summary string `form:"summary" json:"summary"`
}

// CreateBook handles POST /api/books. When no summary is supplied the book
// is stored without one and a background generation task is enqueued.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	title, err := validation.Title(req.Title)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	author, err := validation.Author(req.Author)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	summary, err := validation.Summary(req.Summary)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := controller.repo.AddBook(title, author, summary)
	if errors.Is(err, books.ErrDuplicateBook) {
		respondConflict(c, "book already exists")
		return
	}
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	controller.enqueueSummary(book.ID, book.HasSummary())

	c.IndentedJSON(http.StatusCreated, book)
}

// GetBook handles GET /api/books/:id.
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := controller.bookID(c)
	if !ok {
		return
	}

	book, err := controller.repo.GetBookByID(id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/:id.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := controller.bookID(c)
	if !ok {
		return
	}

	err := controller.repo.DeleteBook(id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SearchBooks handles GET /api/books/search?title=. Matching is exact.
func (controller *BooksController) SearchBooks(c *gin.Context) {
	title, err := validation.Title(c.Query("title"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	found, err := controller.repo.FindBooksByTitle(title)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": found, "count": len(found)})
}

// RegenerateSummary handles POST /api/books/:id/summary. Generation happens
// synchronously and is rate limited per client address.
func (controller *BooksController) RegenerateSummary(c *gin.Context) {
	id, ok := controller.bookID(c)
	if !ok {
		return
	}

	if controller.generator == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "summary generation is not configured"})
		return
	}

	if controller.cooldown != nil {
		allowed, retryAfter := controller.cooldown.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "summary was requested too recently",
				"retry_after": retryAfter.String(),
			})
			return
		}
	}

	book, err := controller.repo.GetBookByID(id)
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "regenerate summary")
		return
	}

	summary, err := controller.generator.Generate(c.Request.Context(), book.Title, book.Author)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "no summary available"})
		return
	}

	if err := controller.repo.UpdateSummary(book.ID, summary); err != nil {
		respondInternalError(c, err, "store summary")
		return
	}

	book.Summary = summary
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) bookID(c *gin.Context) (uint, bool) {
	id, err := validation.BookID(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return 0, false
	}
	return id, true
}

// enqueueSummary schedules background generation for books stored without a
// summary. Missing queue or generator just means the summary stays absent.
func (controller *BooksController) enqueueSummary(bookID uint, hasSummary bool) {
	if hasSummary || controller.taskClient == nil || controller.generator == nil {
		return
	}
	if _, err := controller.taskClient.Add(tasks.GenerateSummaryTask{BookID: bookID}).Save(); err != nil {
		// The book itself is stored fine, only the summary is affected.
		log.Printf("Failed to enqueue summary generation for book %d: %v", bookID, err)
	}
}
