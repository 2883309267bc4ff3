package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
)

// FillSummariesCommand generates summaries for every book that lacks one.
type FillSummariesCommand struct {
	DatabasePath string
	Limit        int
	DryRun       bool
}

// NewFillSummariesCommand creates a new FillSummariesCommand
func NewFillSummariesCommand() *FillSummariesCommand {
	return &FillSummariesCommand{}
}

// ParseFlags parses command line flags
func (cmd *FillSummariesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fill-summaries", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the bookshelf database file")
	fs.IntVar(&cmd.Limit, "limit", 0, "Maximum number of books to process (0 = all)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show which books would get a summary without generating any")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fill-summaries [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate summaries for books that do not have one yet. Requires\n")
		fmt.Fprintf(os.Stderr, "SUMMARY_API_KEY to be set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the fill
func (cmd *FillSummariesCommand) Run() error {
	db, repo, err := openRepository(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	missing, err := repo.GetBooksMissingSummary(cmd.Limit)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d books without summaries.\n", len(missing))
	if len(missing) == 0 {
		return nil
	}

	if cmd.DryRun {
		for _, book := range missing {
			fmt.Printf("  would generate: '%s' by %s\n", book.Title, book.Author)
		}
		return nil
	}

	generator := newGenerator(config.NewConfig())
	if generator == nil {
		return fmt.Errorf("summary generation is not configured, set SUMMARY_API_KEY")
	}

	filled := 0
	for _, book := range missing {
		fmt.Printf("\nGenerating summary for: %s by %s\n", book.Title, book.Author)
		summary, err := generator.Generate(context.Background(), book.Title, book.Author)
		if err != nil {
			fmt.Printf("✗ Error generating summary: %v\n", err)
			continue
		}
		if err := repo.UpdateSummary(book.ID, summary); err != nil {
			fmt.Printf("✗ Error saving summary: %v\n", err)
			continue
		}
		filled++
		fmt.Println("✓ Summary added successfully!")
	}

	fmt.Printf("\n%d of %d summaries generated.\n", filled, len(missing))
	return nil
}
