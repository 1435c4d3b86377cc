package service

import (
	"path/filepath"
	"testing"

	"github.com/u16-io/EmoteWizard4Discord/db"
)

// openTestDB points the global connection at a throwaway database
func openTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	if err := db.Init(path); err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { db.Close() })
}
