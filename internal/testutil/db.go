// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"biokuiz/internal/config"
	"biokuiz/pkg/database"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// NewDB returns a migrated SQLite database in a temp dir, closed on cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "biokuiz_test.db")}
	db, err := database.InitDB(cfg, false)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
