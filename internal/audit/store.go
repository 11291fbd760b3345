package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store persists audit entries.
type Store interface {
	Append(entry Entry) error
	// ReadAll returns every parsable entry in insertion order. Lines
	// that fail to parse are skipped, never aborting the read.
	ReadAll() ([]Entry, error)
}

// FileStore writes entries as newline-delimited JSON, one self-describing
// record per line.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore builds a store writing to the given path. The parent
// directory is created on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append writes one entry. Callers that must not fail on audit errors
// wrap this via Log.Append.
func (s *FileStore) Append(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// ReadAll loads the log, skipping blank and unparsable lines.
func (s *FileStore) ReadAll() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}
