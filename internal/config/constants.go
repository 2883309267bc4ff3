package config

// Default filesystem locations.
const (
	// DefaultDatabasePath is the default path for the bookshelf database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultUploadDir is the scratch directory for bulk-import uploads
	DefaultUploadDir = "/tmp/bookshelf-uploads"
)
