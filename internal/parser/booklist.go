// Package parser reads plain-text book lists used for bulk import.
//
// Three line conventions are recognised:
//
//	Title by Author
//	Title - Author
//	Title
//
// Blank lines and lines starting with '#' are skipped. When a line matches
// none of the separator forms the whole line becomes the title and the
// author is left empty for the shell to resolve.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	commentMarker = "#"
	bySeparator   = " by "
	dashSeparator = " - "
)

// Entry is a single parsed record. Author may be empty.
type Entry struct {
	Title  string
	Author string
}

// ParseBookList reads every entry from r. The "by" convention wins over the
// dash convention when a line contains both, and only the first occurrence
// of a separator splits the line.
func ParseBookList(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		entries = append(entries, parseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book list: %w", err)
	}

	return entries, nil
}

func parseLine(line string) Entry {
	if title, author, found := strings.Cut(line, bySeparator); found {
		return Entry{Title: strings.TrimSpace(title), Author: strings.TrimSpace(author)}
	}
	if title, author, found := strings.Cut(line, dashSeparator); found {
		return Entry{Title: strings.TrimSpace(title), Author: strings.TrimSpace(author)}
	}
	return Entry{Title: line}
}
