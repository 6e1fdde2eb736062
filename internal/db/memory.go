package db

import (
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenInMemory returns a migrated, private in-memory SQLite database.
func OpenInMemory() (*gorm.DB, error) {
	return Open(sqlite.Open("file::memory:"), true, zerolog.Nop())
}
