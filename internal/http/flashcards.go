package http

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// FlashcardsController serves shuffled decks for recall practice.
type FlashcardsController struct {
	repo *books.Repository
}

func NewFlashcardsController(repo *books.Repository) *FlashcardsController {
	return &FlashcardsController{repo: repo}
}

// Card is one side-hidden flashcard. The summary is the hidden side, so a
// card carries a flag instead of forcing clients to inspect the text.
type Card struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Summary    string `json:"summary"`
	HasSummary bool   `json:"has_summary"`
}

// Deck handles GET /api/flashcards. Returns all books in random order; an
// empty shelf yields an empty deck, not an error.
func (controller *FlashcardsController) Deck(c *gin.Context) {
	all, err := controller.repo.GetAllBooks(books.SortCreated)
	if err != nil {
		respondInternalError(c, err, "flashcard deck")
		return
	}

	deck := buildDeck(all)
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	c.IndentedJSON(http.StatusOK, gin.H{"cards": deck, "count": len(deck)})
}

func buildDeck(all []entities.Book) []Card {
	deck := make([]Card, 0, len(all))
	for _, book := range all {
		deck = append(deck, Card{
			ID:         book.ID,
			Title:      book.Title,
			Author:     book.Author,
			Summary:    book.Summary,
			HasSummary: book.HasSummary(),
		})
	}
	return deck
}
