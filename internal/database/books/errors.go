package books

import (
	"errors"
	"fmt"
)

// ErrDuplicateBook indicates a (title, author) pair that already exists.
var ErrDuplicateBook = errors.New("book already exists")

// ErrBookNotFound indicates an ID that did not resolve to a book.
var ErrBookNotFound = errors.New("book not found")

// StorageError wraps an I/O-level failure from the underlying store (disk
// full, permission denied, locked file). It is fatal for the current
// operation and never retried automatically. The wrapped driver error is
// kept for logs but must not be shown to end users.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
