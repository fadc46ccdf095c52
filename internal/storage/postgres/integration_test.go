package postgres

import (
	"os"
	"testing"

	"github.com/julianstephens/hybridmaster/internal/storage"
)

// Set HYBRIDMASTER_TEST_POSTGRES to run against a real database, e.g.
// postgres://gym@localhost:5432/gym_test?sslmode=disable
func TestBackendIntegration(t *testing.T) {
	connStr := os.Getenv("HYBRIDMASTER_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("HYBRIDMASTER_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	b := New(connStr)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer b.Close()

	store := storage.New(b, storage.WithPrefix("itest_"))
	defer store.Clear()

	if !store.Available() {
		t.Fatal("postgres store should be available")
	}
	store.SaveNavigationState(9, "mardi")
	if nav := store.LoadNavigationState(); nav.Week != 9 || nav.Day != "mardi" {
		t.Errorf("navigation = %+v", nav)
	}
}
