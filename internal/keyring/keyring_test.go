package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()
	entry := DatabaseConnection()

	connStr := "postgres://lifter@localhost:5432/hybridmaster?sslmode=disable"
	if err := entry.Set(connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := entry.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get() = %q, want %q", got, connStr)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := DatabaseConnection().Set(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("Set(\"\") error = %v, want ErrEmptySecret", err)
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	if _, err := DatabaseConnection().Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()
	entry := DatabaseConnection()

	if err := entry.Set("postgres://lifter@localhost/hybridmaster"); err != nil {
		t.Fatal(err)
	}
	if err := entry.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := entry.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := entry.Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	defer gokeyring.MockInit()

	if Available() {
		t.Error("Available() = true with a failing keyring")
	}
	if _, err := DatabaseConnection().Get(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want ErrKeyringUnavailable", err)
	}
}

func TestAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !Available() {
		t.Error("Available() = false with the mock keyring")
	}
}
