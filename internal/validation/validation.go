// Package validation enforces input constraints before anything reaches the
// database or is echoed back to a rendering layer. All business rules about
// acceptable text live here; the schema-level constraints in
// internal/entities only mirror them as a second line of defense.
package validation

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

// Length limits for book fields.
const (
	MaxTitleLength    = 500
	MaxAuthorLength   = 200
	MaxSummaryLength  = 10000
	MaxFilenameLength = 255

	// MaxBookID is the largest accepted ID (32-bit signed integer range).
	MaxBookID = 2147483647
)

// Upload constraints for bulk-import files.
const (
	AllowedExtension = "txt"
	MaxFileSize      = 16 * 1024 * 1024 // 16 MiB
)

// dangerousPatterns are markup fragments that must never appear in stored
// text. Matching is case-insensitive substring search; the offending value
// is deliberately not logged.
var dangerousPatterns = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onclick=",
	"<iframe",
	"eval(",
}

// Error is a failed validation. Field names what was being validated and
// Reason names the violated rule; both are safe to show to an end user.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func failf(field, reason string) error {
	return &Error{Field: field, Reason: reason}
}

// Title validates and normalizes a book title. It returns the trimmed title
// or an *Error naming the violated rule.
func Title(raw string) (string, error) {
	title := strings.TrimSpace(raw)

	if title == "" {
		log.Printf("Title validation failed: empty string")
		return "", failf("title", "cannot be empty")
	}

	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		log.Printf("Title validation failed: length %d exceeds maximum %d", n, MaxTitleLength)
		return "", failf("title", fmt.Sprintf("cannot exceed %d characters", MaxTitleLength))
	}

	// Titles are single-line: reject embedded newlines and tabs along with
	// null bytes.
	if strings.ContainsAny(title, "\x00\r\n\t") {
		log.Printf("Title validation failed: contains control characters")
		return "", failf("title", "contains invalid control characters")
	}

	if pattern := findDangerousPattern(title); pattern != "" {
		log.Printf("Title validation failed: contains dangerous pattern %q", pattern)
		return "", failf("title", "contains potentially dangerous content")
	}

	return title, nil
}

// Author validates and normalizes an author name. The full range of
// non-control Unicode text is permitted; there is no alphabet restriction.
func Author(raw string) (string, error) {
	author := strings.TrimSpace(raw)

	if author == "" {
		log.Printf("Author validation failed: empty string")
		return "", failf("author", "cannot be empty")
	}

	if n := utf8.RuneCountInString(author); n > MaxAuthorLength {
		log.Printf("Author validation failed: length %d exceeds maximum %d", n, MaxAuthorLength)
		return "", failf("author", fmt.Sprintf("cannot exceed %d characters", MaxAuthorLength))
	}

	if strings.ContainsAny(author, "\x00\r\n\t") {
		log.Printf("Author validation failed: contains control characters")
		return "", failf("author", "contains invalid control characters")
	}

	if pattern := findDangerousPattern(author); pattern != "" {
		log.Printf("Author validation failed: contains dangerous pattern %q", pattern)
		return "", failf("author", "contains potentially dangerous content")
	}

	return author, nil
}

// Summary validates an optional book summary. Empty input (or input that is
// empty after trimming) normalizes to the empty string, meaning "no summary".
// Unlike titles, summaries are multi-line prose, so newlines and tabs pass.
func Summary(raw string) (string, error) {
	summary := strings.TrimSpace(raw)

	if summary == "" {
		return "", nil
	}

	if n := utf8.RuneCountInString(summary); n > MaxSummaryLength {
		log.Printf("Summary validation failed: length %d exceeds maximum %d", n, MaxSummaryLength)
		return "", failf("summary", fmt.Sprintf("cannot exceed %d characters", MaxSummaryLength))
	}

	if strings.ContainsRune(summary, '\x00') {
		log.Printf("Summary validation failed: contains null bytes")
		return "", failf("summary", "contains invalid characters")
	}

	if pattern := findDangerousPattern(summary); pattern != "" {
		log.Printf("Summary validation failed: contains dangerous pattern %q", pattern)
		return "", failf("summary", "contains potentially dangerous content")
	}

	return summary, nil
}

// BookID parses and validates a book ID supplied as text (route parameter,
// CLI argument). Only decimal digits are accepted.
func BookID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		log.Printf("Book ID validation failed: empty string")
		return 0, failf("book id", "must be a valid integer")
	}

	var id uint64
	for _, r := range raw {
		if r < '0' || r > '9' {
			log.Printf("Book ID validation failed: not a decimal integer")
			return 0, failf("book id", "must be a valid integer")
		}
		id = id*10 + uint64(r-'0')
		if id > MaxBookID {
			log.Printf("Book ID validation failed: value too large")
			return 0, failf("book id", "value is too large")
		}
	}

	if id == 0 {
		log.Printf("Book ID validation failed: invalid value %d", id)
		return 0, failf("book id", "must be a positive integer")
	}

	return uint(id), nil
}

func findDangerousPattern(s string) string {
	lower := strings.ToLower(s)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return pattern
		}
	}
	return ""
}
