package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/hybridmaster/internal/constants"
)

var (
	// ErrNotFound is returned when no connection string is stored
	ErrNotFound = errors.New("connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrEmptySecret is returned when storing an empty connection string
	ErrEmptySecret = errors.New("connection string cannot be empty")
)

const probeUser = "availability-probe"

// Entry is one secret in the OS keyring, addressed by service and user
type Entry struct {
	Service string
	User    string
}

// DatabaseConnection is the entry holding the postgres connection string
func DatabaseConnection() Entry {
	return Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// Get returns the stored secret, or ErrNotFound
func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(e.Service, e.User)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores the secret, replacing any previous one
func (e Entry) Set(secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	if err := keyring.Set(e.Service, e.User, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret, or returns ErrNotFound
func (e Entry) Delete() error {
	err := keyring.Delete(e.Service, e.User)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to delete secret from keyring: %w", err)
	}
	return nil
}

// Available reports whether the OS keyring answers a read. An empty
// keyring counts as available.
func Available() bool {
	_, err := keyring.Get(constants.AppName, probeUser)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
