// Package history records the commands star-shell suggested as JSON lines.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kcaldas/star-shell/pkg/config"
)

const (
	// FileName is the history file inside the star-shell directory.
	FileName = "history.jsonl"
	// DefaultMaxEntries bounds the file; older entries are dropped on append.
	DefaultMaxEntries = 500
)

// Entry is one suggested command.
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Time     time.Time `json:"time"`
	Wish     string    `json:"wish"`
	Command  string    `json:"command"`
	Backend  string    `json:"backend"`
	Executed bool      `json:"executed"`
}

// Store persists entries to a JSON-lines file.
type Store struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	now        func() time.Time
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{
		path:       path,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

// NewDefaultStore returns the store at ~/.star-shell/history.jsonl.
func NewDefaultStore() (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(dir, FileName)), nil
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Append records entry, filling in ID and Time when unset.
func (s *Store) Append(entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Time.IsZero() {
		entry.Time = s.now().UTC()
	}

	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, entry)
	if len(entries) > s.maxEntries {
		entries = entries[len(entries)-s.maxEntries:]
	}

	if err := s.save(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns up to limit of the most recent entries, oldest first.
// A limit of zero or less returns every entry.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Clear removes the history file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}

// load reads every well-formed entry; malformed lines are skipped.
func (s *Store) load() ([]Entry, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return entries, nil
}

// save rewrites the file through a temporary file in the same directory.
func (s *Store) save(entries []Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := bufio.NewWriter(tmp)
	encoder := json.NewEncoder(writer)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write history entry: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to set history permissions: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
