package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	// MemoryPath selects a private in-memory database.
	MemoryPath = ":memory:"
)

// NewSQLite opens the database file at path. When the file cannot be created
// (read-only filesystem) it logs a warning and falls back to memory.
func NewSQLite(path string) (*gorm.DB, error) {
	dsn := memoryDSN()
	if path != "" && path != MemoryPath {
		if err := ensureWritable(path); err != nil {
			log.Printf("sqlite: %s is not writable (%v), using in-memory database", path, err)
		} else {
			dsn = path + "?" + sqlitePragmas
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// Single writer engine; an in-memory database also lives only as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

func memoryDSN() string {
	return "file::memory:?" + sqlitePragmas
}

func ensureWritable(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
