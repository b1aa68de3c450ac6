package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SchemaVersion tags cached entries so a change to the parsed result shape
// invalidates earlier entries instead of silently serving them.
const SchemaVersion = 1

// Entry is the on-disk envelope for one cached parse result.
type Entry struct {
	SchemaVersion int             `json:"schemaVersion"`
	Fingerprint   string          `json:"fingerprint"`
	CreatedAt     time.Time       `json:"createdAt"`
	Result        json.RawMessage `json:"result"`
}

// Store maps content fingerprints to result files under a base directory.
// Entries are only ever created; eviction is left to external cleanup.
type Store struct {
	baseDir string
}

// New creates a store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Get returns the cached result for a fingerprint, reporting whether it was
// found. Entries written under a different schema version are treated as
// misses.
func (s *Store) Get(fingerprint string) (json.RawMessage, bool, error) {
	path, err := s.entryPath(fingerprint)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache read fingerprint=%s: %w", fingerprint, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("cache decode fingerprint=%s: %w", fingerprint, err)
	}
	if entry.SchemaVersion != SchemaVersion {
		return nil, false, nil
	}
	return entry.Result, true, nil
}

// Put writes a result for a fingerprint. A concurrent writer to the same
// fingerprint produces an identical entry, so last-write-wins is harmless.
func (s *Store) Put(fingerprint string, result json.RawMessage) error {
	path, err := s.entryPath(fingerprint)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("cache mkdir: %w", err)
	}

	entry := Entry{
		SchemaVersion: SchemaVersion,
		Fingerprint:   fingerprint,
		CreatedAt:     time.Now().UTC(),
		Result:        result,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("cache encode fingerprint=%s: %w", fingerprint, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cache write fingerprint=%s: %w", fingerprint, err)
	}
	return nil
}

func (s *Store) entryPath(fingerprint string) (string, error) {
	if fingerprint == "" {
		return "", errors.New("empty fingerprint")
	}
	if strings.Contains(fingerprint, "..") || strings.ContainsAny(fingerprint, `/\`) {
		return "", fmt.Errorf("invalid fingerprint: %s", fingerprint)
	}
	return filepath.Join(s.baseDir, fingerprint+".json"), nil
}
