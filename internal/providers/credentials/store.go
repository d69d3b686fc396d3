package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// serviceName groups all host passwords under one keychain service.
const serviceName = "xTerm"

// Store reads and writes per-host passwords in the OS credential store.
// Host ids are the keychain account names.
type Store struct{}

// NewStore returns the keychain-backed credential store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the stored password for hostID, or empty with no error
// when none exists. A blank id never hits the keychain.
func (s *Store) Get(hostID string) (string, error) {
	id := strings.TrimSpace(hostID)
	if id == "" {
		return "", nil
	}
	pw, err := keyring.Get(serviceName, id)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keychain get %s: %w", id, err)
	}
	return pw, nil
}

// Has reports whether a non-blank password is stored for hostID.
func (s *Store) Has(hostID string) bool {
	pw, err := s.Get(hostID)
	return err == nil && strings.TrimSpace(pw) != ""
}

// Set stores a password for hostID. A blank password deletes instead.
// Some keychain backends do not reliably replace entries in-place, so
// Set deletes first.
func (s *Store) Set(hostID, password string) error {
	id := strings.TrimSpace(hostID)
	if id == "" {
		return errors.New("host id is required")
	}
	pw := strings.TrimSpace(password)
	if pw == "" {
		return s.Delete(id)
	}
	if err := keyring.Delete(serviceName, id); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain replace %s: %w", id, err)
	}
	if err := keyring.Set(serviceName, id, pw); err != nil {
		return fmt.Errorf("keychain set %s: %w", id, err)
	}
	return nil
}

// Delete removes the password for hostID. Deleting a missing entry is
// not an error.
func (s *Store) Delete(hostID string) error {
	id := strings.TrimSpace(hostID)
	if id == "" {
		return errors.New("host id is required")
	}
	if err := keyring.Delete(serviceName, id); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete %s: %w", id, err)
	}
	return nil
}
