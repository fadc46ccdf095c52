package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSONBackendLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hybridmaster.json")
	b := NewJSONBackend(path)

	if err := b.Load(); err == nil {
		t.Fatal("Load before Init should fail")
	}
	if _, _, err := b.GetItem("k"); err != ErrNotLoaded {
		t.Errorf("GetItem before Load = %v, want ErrNotLoaded", err)
	}

	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := b.Init(); err == nil {
		t.Error("second Init should fail")
	}
	if err := b.SetItem("hybrid_master_navigation", `{"week":2,"day":"mardi"}`); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("storage file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("storage file mode = %v, want 0600", info.Mode().Perm())
	}

	reopened := NewJSONBackend(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, ok, err := reopened.GetItem("hybrid_master_navigation")
	if err != nil || !ok || v != `{"week":2,"day":"mardi"}` {
		t.Errorf("GetItem = %q, %v, %v", v, ok, err)
	}

	if err := reopened.RemoveItem("hybrid_master_navigation"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	keys, err := reopened.Keys()
	if err != nil || len(keys) != 0 {
		t.Errorf("Keys after remove = %v, %v", keys, err)
	}
}

func TestJSONBackendBehindStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	b := NewJSONBackend(path)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}

	store := New(b)
	if !store.Available() {
		t.Fatal("JSON store should be available")
	}
	store.SaveNavigationState(7, "vendredi")

	b2 := NewJSONBackend(path)
	if err := b2.Load(); err != nil {
		t.Fatal(err)
	}
	if nav := New(b2).LoadNavigationState(); nav.Week != 7 || nav.Day != "vendredi" {
		t.Errorf("navigation after reopen = %+v", nav)
	}
}

func TestJSONBackendRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONBackend(path).Load(); err == nil {
		t.Error("Load should fail on corrupt JSON")
	}
}

func TestJSONBackendRemoveKeepsValueWhenFlushFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	b := NewJSONBackend(filepath.Join(dir, "data.json"))
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	if err := b.SetItem("hybrid_master_history", "{}"); err != nil {
		t.Fatal(err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := b.RemoveItem("hybrid_master_history"); err == nil {
		t.Fatal("RemoveItem should fail when the file cannot be written")
	}
	v, ok, err := b.GetItem("hybrid_master_history")
	if err != nil || !ok || v != "{}" {
		t.Errorf("GetItem after failed remove = %q, %v, %v", v, ok, err)
	}
}
