package validation

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// FilePath resolves a path to its absolute, symlink-resolved form. When
// baseDir is non-empty the resolved path must be equal to or nested under
// the resolved baseDir, which defends against traversal sequences such as
// repeated "../".
func FilePath(raw string, baseDir string) (string, error) {
	if strings.ContainsRune(raw, '\x00') {
		log.Printf("File path validation failed: contains null bytes")
		return "", failf("file path", "contains invalid characters")
	}

	resolved, err := resolvePath(raw)
	if err != nil {
		log.Printf("File path validation failed: cannot resolve path: %v", err)
		return "", failf("file path", "is invalid")
	}

	if baseDir != "" {
		base, err := resolvePath(baseDir)
		if err != nil {
			log.Printf("File path validation failed: cannot resolve base directory: %v", err)
			return "", failf("file path", "is invalid")
		}

		rel, err := filepath.Rel(base, resolved)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			log.Printf("File path validation failed: path is outside the allowed directory")
			return "", failf("file path", "is outside allowed directory")
		}
	}

	return resolved, nil
}

// resolvePath makes a path absolute and follows symlinks. The target does
// not have to exist yet (an upload destination, for example); in that case
// the cleaned absolute path is returned as-is.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

// Filename validates an uploaded file's name. Only plain "name.txt" style
// names pass: no path separators, no hidden-file prefix, single allowed
// extension.
func Filename(raw string) (string, error) {
	filename := strings.TrimSpace(raw)

	if filename == "" {
		log.Printf("Filename validation failed: empty string")
		return "", failf("filename", "cannot be empty")
	}

	if n := utf8.RuneCountInString(filename); n > MaxFilenameLength {
		log.Printf("Filename validation failed: length %d exceeds maximum %d", n, MaxFilenameLength)
		return "", failf("filename", fmt.Sprintf("cannot exceed %d characters", MaxFilenameLength))
	}

	if strings.ContainsAny(filename, "\x00/\\") {
		log.Printf("Filename validation failed: contains invalid characters")
		return "", failf("filename", "contains invalid characters")
	}

	if strings.HasPrefix(filename, ".") {
		log.Printf("Filename validation failed: hidden file")
		return "", failf("filename", "hidden files are not allowed")
	}

	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		log.Printf("Filename validation failed: no extension")
		return "", failf("filename", "must have an extension")
	}

	ext := strings.ToLower(filename[dot+1:])
	if ext != AllowedExtension {
		log.Printf("Filename validation failed: extension %q not allowed", ext)
		return "", failf("filename", fmt.Sprintf("only .%s files are allowed", AllowedExtension))
	}

	return filename, nil
}

// FileSize validates an upload's size in bytes. Empty files are rejected
// along with anything over the configured maximum.
func FileSize(size int64) error {
	if size < 0 {
		log.Printf("File size validation failed: negative value %d", size)
		return failf("file size", "cannot be negative")
	}

	if size == 0 {
		log.Printf("File size validation failed: empty file")
		return failf("file", "cannot be empty")
	}

	if size > MaxFileSize {
		log.Printf("File size validation failed: size %d exceeds maximum %d", size, MaxFileSize)
		return failf("file size", fmt.Sprintf("cannot exceed %dMB", MaxFileSize/(1024*1024)))
	}

	return nil
}

// FileContent checks that uploaded bytes are safe text: valid UTF-8, no
// null bytes, and no more than 10% control characters (newlines, carriage
// returns and tabs do not count toward the limit).
func FileContent(content []byte) error {
	if !utf8.Valid(content) {
		log.Printf("File content validation failed: not valid UTF-8")
		return failf("file", "must be valid UTF-8 text")
	}

	text := string(content)

	if strings.ContainsRune(text, '\x00') {
		log.Printf("File content validation failed: contains null bytes")
		return failf("file", "appears to be binary, not text")
	}

	controlCount := 0
	total := 0
	for _, r := range text {
		total++
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			controlCount++
		}
	}
	if total > 0 && float64(controlCount)/float64(total) > 0.1 {
		log.Printf("File content validation failed: %d of %d characters are control characters", controlCount, total)
		return failf("file", "contains too many control characters")
	}

	return nil
}
