package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/summarizer"
)

// GenerateSummaryTask generates a summary for a single book in the background.
type GenerateSummaryTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for summary generation tasks.
func (t GenerateSummaryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "generate_summary",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// GenerateSummaryProcessor creates a processor function for
// GenerateSummaryTask. Books that disappeared or already have a summary are
// skipped without retrying; generator failures are retried.
func GenerateSummaryProcessor(repo *books.Repository, generator summarizer.Generator) backlite.QueueProcessor[GenerateSummaryTask] {
	return func(ctx context.Context, task GenerateSummaryTask) error {
		if generator == nil {
			log.Printf("[TASK] Book %d: no summary generator configured, skipping", task.BookID)
			return nil
		}

		book, err := repo.GetBookByID(task.BookID)
		if errors.Is(err, books.ErrBookNotFound) {
			log.Printf("[TASK] Book %d no longer exists, skipping summary", task.BookID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load book %d: %w", task.BookID, err)
		}
		if book.HasSummary() {
			log.Printf("[TASK] Book %d (%s) already has a summary, skipping", book.ID, book.Title)
			return nil
		}

		summary, err := generator.Generate(ctx, book.Title, book.Author)
		if err != nil {
			return fmt.Errorf("generate summary for book %d: %w", task.BookID, err)
		}

		if err := repo.UpdateSummary(book.ID, summary); err != nil {
			return fmt.Errorf("store summary for book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Generated summary for book %d (%s)", book.ID, book.Title)
		return nil
	}
}

// NewGenerateSummaryQueue creates a backlite queue for summary generation.
func NewGenerateSummaryQueue(repo *books.Repository, generator summarizer.Generator) backlite.Queue {
	return backlite.NewQueue(GenerateSummaryProcessor(repo, generator))
}
