package summarizer

import (
	"context"
	"fmt"
)

// Mock is a Generator for tests and local development. It never calls out.
type Mock struct {
	// Summary is returned verbatim when set.
	Summary string
	// Err is returned instead of a summary when set.
	Err error

	// Calls records every (title, author) pair passed to Generate.
	Calls [][2]string
}

func (m *Mock) Generate(_ context.Context, title, author string) (string, error) {
	m.Calls = append(m.Calls, [2]string{title, author})
	if m.Err != nil {
		return "", m.Err
	}
	if m.Summary != "" {
		return m.Summary, nil
	}
	return fmt.Sprintf("A short refresher on %q by %s.", title, author), nil
}
