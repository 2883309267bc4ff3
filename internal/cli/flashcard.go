package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/books"
)

// FlashcardCommand runs the interactive recall session: title and author
// shown first, summary revealed on demand.
type FlashcardCommand struct {
	DatabasePath string
}

// NewFlashcardCommand creates a new FlashcardCommand
func NewFlashcardCommand() *FlashcardCommand {
	return &FlashcardCommand{}
}

// ParseFlags parses command line flags
func (cmd *FlashcardCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("flashcard", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the bookshelf database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s flashcard [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Go through your books one by one: the title and author come first,\n")
		fmt.Fprintf(os.Stderr, "press Enter to reveal the summary. Enter q to stop.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the flashcard session
func (cmd *FlashcardCommand) Run() error {
	db, repo, err := openRepository(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := repo.GetAllBooks(books.SortCreated)
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Println("\nNo books in your bookshelf yet. Add some books to get started!")
		return nil
	}

	fmt.Printf("\n=== Flashcard Mode (%d books) ===\n", len(all))
	fmt.Println("Press Enter to see the next book, or 'q' to quit.")

	reader := stdinReader()
	for idx, book := range all {
		fmt.Printf("\n--- Book %d/%d ---\n", idx+1, len(all))
		fmt.Printf("Title: %s\n", book.Title)
		fmt.Printf("Author: %s\n", book.Author)

		if book.HasSummary() {
			promptLine(reader, "\nPress Enter to see summary...")
			fmt.Println("\nSummary:")
			fmt.Println(book.Summary)
		} else {
			fmt.Println("\n(No summary available)")
		}

		if idx < len(all)-1 {
			response := promptLine(reader, "\nPress Enter for next book, or 'q' to quit: ")
			if strings.ToLower(response) == "q" {
				break
			}
		}
	}

	fmt.Println("\n=== End of Flashcards ===")
	return nil
}
