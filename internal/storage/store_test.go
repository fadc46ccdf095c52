package storage

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// failingBackend rejects every write, like a disabled browser storage.
type failingBackend struct {
	MemoryBackend
}

func (b *failingBackend) SetItem(string, string) error { return errors.New("storage disabled") }

func newTestStore(t *testing.T, opts ...Option) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend(4 * 1024 * 1024)
	store := New(backend, opts...)
	if !store.Available() {
		t.Fatal("memory store should be available")
	}
	return store, backend
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	type record struct {
		Name string
		Sets []int
	}
	values := map[string]any{
		"number": 42.5,
		"text":   "dimanche",
		"list":   []int{0, 1, 2},
		"record": record{Name: "Squat", Sets: []int{1, 3}},
	}
	for key, value := range values {
		if !store.Save(key, value) {
			t.Fatalf("Save(%q) failed", key)
		}
	}

	if got := Load(store, "number", 0.0); got != 42.5 {
		t.Errorf("number = %v", got)
	}
	if got := Load(store, "text", ""); got != "dimanche" {
		t.Errorf("text = %q", got)
	}
	if got := Load[[]int](store, "list", nil); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("list = %v", got)
	}
	if got := Load(store, "record", record{}); !reflect.DeepEqual(got, values["record"]) {
		t.Errorf("record = %+v", got)
	}
}

func TestLoadReturnsDefault(t *testing.T) {
	store, backend := newTestStore(t)

	def := map[string]int{"x": 1}
	if got := Load(store, "missing", def); !reflect.DeepEqual(got, def) {
		t.Errorf("Load(missing) = %v, want default", got)
	}

	// Corrupt JSON falls back to the default as well.
	if err := backend.SetItem(constants.StoragePrefix+"broken", "{not json"); err != nil {
		t.Fatal(err)
	}
	if got := Load(store, "broken", 7); got != 7 {
		t.Errorf("Load(broken) = %v, want 7", got)
	}
}

func TestSaveRejectsUnencodableValue(t *testing.T) {
	store, _ := newTestStore(t)
	if store.Save("fn", func() {}) {
		t.Error("Save should fail for a value JSON cannot encode")
	}
}

func TestSaveReportsQuotaFailure(t *testing.T) {
	// The smallest freecache only accepts entries below ~512 bytes.
	store := New(NewMemoryBackend(1))
	if !store.Available() {
		t.Fatal("store should be available")
	}
	if store.Save("big", strings.Repeat("x", 4096)) {
		t.Error("Save should fail when the backend rejects the entry")
	}
	if !store.Save("small", "ok") {
		t.Error("small values should still fit")
	}
}

func TestUnavailableStoreDegrades(t *testing.T) {
	store := New(&failingBackend{MemoryBackend: *NewMemoryBackend(1)})
	if store.Available() {
		t.Fatal("probe should fail")
	}
	if store.Save("k", 1) || store.Remove("k") || store.Clear() || store.ImportAll(map[string]string{"k": "1"}) {
		t.Error("operations on an unavailable store should report failure")
	}
	if got := Load(store, "k", 3); got != 3 {
		t.Errorf("Load = %v, want default", got)
	}
	if nav := store.LoadNavigationState(); nav.Week != 1 || nav.Day != constants.DaySunday {
		t.Errorf("LoadNavigationState = %+v, want defaults", nav)
	}

	var nilStore *Store
	if nilStore.Available() || nilStore.Save("k", 1) {
		t.Error("nil store should be unavailable")
	}
}

func TestClearOnlyTouchesNamespace(t *testing.T) {
	store, backend := newTestStore(t)

	if err := backend.SetItem("other_app_token", "keep me"); err != nil {
		t.Fatal(err)
	}
	store.Save("history", models.History{})
	store.Save(KeyNavigation, models.NavigationState{Week: 2, Day: "mardi"})

	if !store.Clear() {
		t.Fatal("Clear failed")
	}
	if keys := store.Keys(); len(keys) != 0 {
		t.Errorf("namespaced keys left after Clear: %v", keys)
	}
	v, ok, err := backend.GetItem("other_app_token")
	if err != nil || !ok || v != "keep me" {
		t.Errorf("unrelated key was touched: %q, %v, %v", v, ok, err)
	}
}

func TestExportImport(t *testing.T) {
	src, _ := newTestStore(t)
	src.SaveNavigationState(5, "mardi")
	src.SaveCompletedSets(5, "mardi", "squat", []int{0, 1})

	exported := src.ExportAll()
	if _, ok := exported[KeyNavigation]; !ok {
		t.Fatalf("export missing navigation: %v", exported)
	}
	for k := range exported {
		if strings.HasPrefix(k, constants.StoragePrefix) {
			t.Errorf("exported key %q still carries the prefix", k)
		}
	}

	dst, _ := newTestStore(t)
	if !dst.ImportAll(exported) {
		t.Fatal("ImportAll failed")
	}
	if nav := dst.LoadNavigationState(); nav.Week != 5 || nav.Day != "mardi" {
		t.Errorf("imported navigation = %+v", nav)
	}
	if sets := dst.LoadCompletedSets(5, "mardi", "squat"); !reflect.DeepEqual(sets, []int{0, 1}) {
		t.Errorf("imported sets = %v", sets)
	}
}

func TestSize(t *testing.T) {
	store, _ := newTestStore(t)
	if store.Size() != 0 {
		t.Errorf("empty store size = %d", store.Size())
	}
	store.Save("a", "b")
	want := len(constants.StoragePrefix) + len("a") + len(`"b"`)
	if store.Size() != want {
		t.Errorf("Size() = %d, want %d", store.Size(), want)
	}
	if store.SizeFormatted() == "" {
		t.Error("SizeFormatted() should not be empty")
	}
}

func TestWithPrefix(t *testing.T) {
	backend := NewMemoryBackend(4 * 1024 * 1024)
	a := New(backend, WithPrefix("a_"))
	b := New(backend, WithPrefix("b_"))

	a.Save("k", 1)
	if b.Has("k") {
		t.Error("stores with different prefixes should not share keys")
	}
	if !a.Has("k") {
		t.Error("store should see its own key")
	}
}
