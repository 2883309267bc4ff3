// Package summarizer generates book summaries through an external language
// model. Generation failure is never fatal for the caller: a book exists
// without a summary until a generation attempt succeeds.
package summarizer

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptySummary indicates the model returned no usable content.
var ErrEmptySummary = errors.New("no content generated by the model")

// ErrNotConfigured indicates no API key was provided, so no generator is
// available. Shells downgrade this to "no summary available".
var ErrNotConfigured = errors.New("summary generation is not configured")

// Generator produces a summary for a book. Implementations must respect the
// context and cap responses at the summary length limit.
type Generator interface {
	Generate(ctx context.Context, title, author string) (string, error)
}

// buildPrompt asks for a refresher-length summary. Kept short so the output
// fits comfortably under the 10,000 character summary ceiling.
func buildPrompt(title, author string) string {
	return fmt.Sprintf(`Please provide a concise but comprehensive summary of the book %q by %s.
Include the main themes, key plot points (if fiction), and the overall message or takeaways.
Keep it to about 200-300 words so it can serve as a memory refresher.`, title, author)
}
