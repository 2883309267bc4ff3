package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// AddCommand adds a single book, from flags or interactively.
type AddCommand struct {
	DatabasePath string
	Title        string
	Author       string
}

// NewAddCommand creates a new AddCommand
func NewAddCommand() *AddCommand {
	return &AddCommand{}
}

// ParseFlags parses command line flags
func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the bookshelf database file")
	fs.StringVar(&cmd.Title, "title", "", "Book title (prompted for when omitted)")
	fs.StringVar(&cmd.Author, "author", "", "Book author (prompted for when omitted)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a single book to your shelf. Without -title and -author the\n")
		fmt.Fprintf(os.Stderr, "command prompts for them. A summary is generated when SUMMARY_API_KEY\n")
		fmt.Fprintf(os.Stderr, "is set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s add -title \"Dune\" -author \"Frank Herbert\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s add\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the add command
func (cmd *AddCommand) Run() error {
	title := cmd.Title
	author := cmd.Author

	if title == "" || author == "" {
		reader := stdinReader()
		fmt.Println("\n=== Add New Book ===")
		if title == "" {
			title = promptLine(reader, "Enter book title: ")
		}
		if author == "" {
			author = promptLine(reader, "Enter book author: ")
		}
	}

	title, err := validation.Title(title)
	if err != nil {
		return err
	}
	author, err = validation.Author(author)
	if err != nil {
		return err
	}

	db, repo, err := openRepository(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	generator := newGenerator(config.NewConfig())
	addBook(repo, generator, title, author)
	return nil
}
