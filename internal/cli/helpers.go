package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/summarizer"
)

// openRepository opens the SQLite store and returns the books repository.
// The caller owns the database handle and must Close it.
func openRepository(dbPath string) (*database.Database, *books.Repository, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, books.NewRepository(db.DB), nil
}

// newGenerator builds the summary generator from the environment. Returns
// nil when no API key is configured; commands then proceed without summaries.
func newGenerator(cfg *config.Config) summarizer.Generator {
	client, err := summarizer.NewClient(summarizer.Config{
		APIKey:  cfg.Summary.APIKey,
		Model:   cfg.Summary.Model,
		BaseURL: cfg.Summary.BaseURL,
	})
	if err != nil {
		if !summarizer.IsNotConfigured(err) {
			fmt.Printf("Warning: %v\n", err)
		}
		fmt.Println("Summary generation will not be available.")
		return nil
	}
	return client
}

// addBook stores one book and generates its summary when a generator is
// available. Duplicates and generation failures are reported, not fatal.
func addBook(repo *books.Repository, generator summarizer.Generator, title, author string) {
	fmt.Printf("\nAdding: '%s' by %s\n", title, author)

	book, err := repo.AddBook(title, author, "")
	if errors.Is(err, books.ErrDuplicateBook) {
		fmt.Println("  Book already exists in database.")
		return
	}
	if err != nil {
		fmt.Printf("  Error adding book: %v\n", err)
		return
	}

	if generator == nil {
		fmt.Println("  ✓ Book added (no summary - generation not available)")
		return
	}

	fmt.Println("  Generating summary...")
	summary, err := generator.Generate(context.Background(), book.Title, book.Author)
	if err != nil {
		fmt.Printf("  Error generating summary: %v\n", err)
		return
	}
	if err := repo.UpdateSummary(book.ID, summary); err != nil {
		fmt.Printf("  Error saving summary: %v\n", err)
		return
	}
	fmt.Println("  ✓ Summary generated and saved.")
}

// printBooks renders a numbered shelf listing.
func printBooks(all []entities.Book) {
	for idx, book := range all {
		fmt.Printf("\n%d. '%s' by %s\n", idx+1, book.Title, book.Author)
		added := book.CreatedAt.Format("2006-01-02 15:04")
		if book.HasSummary() {
			fmt.Printf("   Added: %s\n", added)
		} else {
			fmt.Printf("   Added: %s (no summary)\n", added)
		}
	}
}

// promptLine reads one trimmed line from the reader, printing the prompt
// first. Returns "" on EOF.
func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line)
}

func stdinReader() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}
