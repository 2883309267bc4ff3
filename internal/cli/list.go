package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/books"
)

// ListCommand prints the shelf contents.
type ListCommand struct {
	DatabasePath string
	Sort         string
}

// NewListCommand creates a new ListCommand
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

// ParseFlags parses command line flags
func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the bookshelf database file")
	fs.StringVar(&cmd.Sort, "sort", "", "Sort order: created (default), recent, title, author")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List every book on the shelf in insertion order.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the list command
func (cmd *ListCommand) Run() error {
	db, repo, err := openRepository(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := repo.GetAllBooks(books.Sort(cmd.Sort))
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Println("\nNo books in your bookshelf yet. Add some books to get started!")
		return nil
	}

	fmt.Printf("\n=== Your Bookshelf (%d books) ===\n", len(all))
	printBooks(all)
	return nil
}
