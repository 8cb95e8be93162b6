package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/racecard/internal/race"
)

const addressesFile = "addresses.json"

// Storage handles persistence of learned addresses and card snapshots
type Storage struct {
	dataDir string
	now     func() time.Time
}

// Address is a remembered race card address
type Address struct {
	URL     string `json:"url"`
	SavedAt string `json:"saved_at"`
}

// AddressBook maps race keys (see race.Query.Key) to addresses
type AddressBook struct {
	Addresses map[string]Address `json:"addresses"`
	UpdatedAt string             `json:"updated_at,omitempty"`
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dir,
		now:     time.Now,
	}, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) cardPath(key string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("card_%s.json", key))
}

// LoadAddresses loads the address book. A missing file yields an empty book.
func (s *Storage) LoadAddresses() (*AddressBook, error) {
	book := &AddressBook{}
	if err := s.readJSON(filepath.Join(s.dataDir, addressesFile), book); err != nil {
		if os.IsNotExist(err) {
			return &AddressBook{Addresses: map[string]Address{}}, nil
		}
		return nil, fmt.Errorf("loading addresses: %w", err)
	}
	if book.Addresses == nil {
		book.Addresses = make(map[string]Address)
	}
	return book, nil
}

// Lookup returns the remembered address for q, if any.
func (s *Storage) Lookup(q race.Query) (string, bool, error) {
	book, err := s.LoadAddresses()
	if err != nil {
		return "", false, err
	}
	addr, ok := book.Addresses[q.Key()]
	return addr.URL, ok, nil
}

// Remember stores url as the address of q, replacing any earlier one.
func (s *Storage) Remember(q race.Query, url string) error {
	book, err := s.LoadAddresses()
	if err != nil {
		return err
	}
	now := s.now().UTC().Format(time.RFC3339)
	book.Addresses[q.Key()] = Address{URL: url, SavedAt: now}
	book.UpdatedAt = now
	return s.writeJSON(filepath.Join(s.dataDir, addressesFile), book)
}

// Forget drops the remembered address of q. Forgetting an unknown race is
// not an error.
func (s *Storage) Forget(q race.Query) error {
	book, err := s.LoadAddresses()
	if err != nil {
		return err
	}
	if _, ok := book.Addresses[q.Key()]; !ok {
		return nil
	}
	delete(book.Addresses, q.Key())
	book.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return s.writeJSON(filepath.Join(s.dataDir, addressesFile), book)
}

// LoadCard loads the last saved card for a race key. It returns nil without
// an error when no card has been saved.
func (s *Storage) LoadCard(key string) (*race.Card, error) {
	var card race.Card
	if err := s.readJSON(s.cardPath(key), &card); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading card: %w", err)
	}
	return &card, nil
}

// SaveCard saves card as the last seen card for a race key.
func (s *Storage) SaveCard(key string, card *race.Card) error {
	return s.writeJSON(s.cardPath(key), card)
}

func (s *Storage) readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Storage) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
