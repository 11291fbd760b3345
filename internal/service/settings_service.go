package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/spec-kit/assistant-backend/internal/audit"
)

// SettingsService stores assistant settings as a JSON document with
// atomic replace-on-write and a per-field audit entry for every change.
type SettingsService struct {
	mu       sync.Mutex
	path     string
	auditLog *audit.Log
}

// NewSettingsService builds the service. path locates the settings file.
func NewSettingsService(path string, auditLog *audit.Log) *SettingsService {
	return &SettingsService{path: path, auditLog: auditLog}
}

// Load returns the current settings; a missing or corrupt file yields an
// empty document, keeping the file for forensics.
func (s *SettingsService) Load() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *SettingsService) read() map[string]any {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]any{}
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return map[string]any{}
	}
	return settings
}

// Save atomically replaces the settings document and audits every changed
// field (added, removed, or modified). Returns the number of changes.
func (s *SettingsService) Save(newSettings map[string]any, actor, reason string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.read()

	type change struct {
		field    string
		oldValue any
		newValue any
	}
	var changes []change
	seen := map[string]struct{}{}
	for k, newV := range newSettings {
		seen[k] = struct{}{}
		if oldV, ok := old[k]; !ok || !jsonEqual(oldV, newV) {
			changes = append(changes, change{k, old[k], newV})
		}
	}
	for k, oldV := range old {
		if _, ok := seen[k]; !ok {
			changes = append(changes, change{k, oldV, nil})
		}
	}

	data, err := json.MarshalIndent(newSettings, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := atomicWrite(s.path, data); err != nil {
		return 0, err
	}

	for _, c := range changes {
		s.auditLog.Append(audit.NewEntry(actor, c.field, c.oldValue, c.newValue, reason))
	}
	return len(changes), nil
}

// atomicWrite writes to a temp file in the same directory and renames it
// over the target.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func jsonEqual(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
