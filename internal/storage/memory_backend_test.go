package storage

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend(1024 * 1024)

	if _, ok, err := b.GetItem("missing"); ok || err != nil {
		t.Errorf("GetItem(missing) = %v, %v", ok, err)
	}
	if err := b.SetItem("b", "2"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetItem("a", "1"); err != nil {
		t.Fatal(err)
	}
	keys, err := b.Keys()
	if err != nil || !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, %v", keys, err)
	}
	if err := b.RemoveItem("a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.GetItem("a"); ok {
		t.Error("a should be removed")
	}
}

func TestMemoryBackendQuota(t *testing.T) {
	b := NewMemoryBackend(1)
	err := b.SetItem("big", strings.Repeat("x", 8192))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("SetItem(big) = %v, want ErrQuotaExceeded", err)
	}
}
