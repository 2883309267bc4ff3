package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/parser"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// AddFileCommand bulk-imports books from a text file, one per line.
type AddFileCommand struct {
	DatabasePath string
	FilePath     string
}

// NewAddFileCommand creates a new AddFileCommand
func NewAddFileCommand() *AddFileCommand {
	return &AddFileCommand{}
}

// ParseFlags parses command line flags
func (cmd *AddFileCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add-file", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the bookshelf database file")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the book list file (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add-file -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import books from a text file, one book per line. Supported formats:\n")
		fmt.Fprintf(os.Stderr, "  Title by Author\n")
		fmt.Fprintf(os.Stderr, "  Title - Author\n")
		fmt.Fprintf(os.Stderr, "  Title\n\n")
		fmt.Fprintf(os.Stderr, "Lines starting with # and blank lines are skipped. For entries without\n")
		fmt.Fprintf(os.Stderr, "an author the command prompts, listing known authors of the same title.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("the -file flag is required")
	}
	return nil
}

// Run executes the import
func (cmd *AddFileCommand) Run() error {
	path, err := validation.FilePath(cmd.FilePath, "")
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open book list: %w", err)
	}
	defer file.Close()

	fmt.Printf("Reading books from %s...\n", path)
	entries, err := parser.ParseBookList(file)
	if err != nil {
		return fmt.Errorf("failed to parse book list: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No books found in file.")
		return nil
	}
	fmt.Printf("Found %d book(s) in file.\n", len(entries))

	db, repo, err := openRepository(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	generator := newGenerator(config.NewConfig())
	reader := stdinReader()

	for _, entry := range entries {
		author := entry.Author
		if author == "" {
			existing, err := repo.FindBooksByTitle(entry.Title)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Printf("\nBook '%s' already exists in database:\n", entry.Title)
				for idx, book := range existing {
					fmt.Printf("  %d. %s\n", idx+1, book.Author)
				}
			}

			author = promptLine(reader, fmt.Sprintf("Enter author for '%s': ", entry.Title))
			if author == "" {
				fmt.Printf("Skipping '%s' (no author provided)\n", entry.Title)
				continue
			}
		}

		title, err := validation.Title(entry.Title)
		if err != nil {
			fmt.Printf("Skipping '%s': %v\n", entry.Title, err)
			continue
		}
		validAuthor, err := validation.Author(author)
		if err != nil {
			fmt.Printf("Skipping '%s': %v\n", entry.Title, err)
			continue
		}

		addBook(repo, generator, title, validAuthor)
	}
	return nil
}
