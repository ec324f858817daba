package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// settingsFile is the on-disk layout of the settings file.
type settingsFile struct {
	RecentFiles    []Entry `json:"recent_files"`
	MaxRecentFiles int     `json:"max_recent_files"`
}

// FileStore keeps recent files in a JSON settings file.
type FileStore struct {
	path   string
	verify bool

	mu       sync.Mutex
	settings settingsFile
	dirty    bool // settings differ from the file
}

// OpenFileStore loads the settings file at path. A missing or unreadable file
// is not an error: the store starts empty and the file is written on the next
// Add. When verify is true, entries whose file no longer exists are dropped.
//
// maxRecent overrides the file's own max_recent_files: the configured limit
// wins, and the file is rewritten with it on Close.
func OpenFileStore(path string, maxRecent int, verify bool) *FileStore {
	if maxRecent <= 0 {
		maxRecent = DefaultMaxRecentFiles
	}

	s := &FileStore{path: path, verify: verify}
	settings, found := s.load()
	s.settings = settings
	loaded := len(s.settings.RecentFiles)
	s.dirty = found && s.settings.MaxRecentFiles != maxRecent
	s.settings.MaxRecentFiles = maxRecent

	recent := s.settings.RecentFiles[:0]
	for _, e := range s.settings.RecentFiles {
		if e.Path == "" {
			continue
		}
		if verify && !exists(e.Path) {
			slog.Debug("dropping missing recent file", "path", e.Path)
			continue
		}
		recent = append(recent, e)
	}
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	s.settings.RecentFiles = recent
	if len(recent) != loaded {
		s.dirty = true
	}

	return s
}

// load reads the settings file. found is false when it is missing or
// unusable.
func (s *FileStore) load() (sf settingsFile, found bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cannot read settings file, using defaults", "path", s.path, "error", err)
		}
		return settingsFile{}, false
	}

	if err := json.Unmarshal(data, &sf); err != nil {
		slog.Warn("settings file is corrupt, using defaults", "path", s.path, "error", err)
		return settingsFile{}, false
	}
	return sf, true
}

// Add records e and rewrites the settings file.
func (s *FileStore) Add(_ context.Context, e Entry) error {
	if e.Path == "" {
		return errors.New("recent file path is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.RecentFiles = push(s.settings.RecentFiles, e, s.settings.MaxRecentFiles)
	s.dirty = true
	return s.save()
}

// List returns a copy of the recent files, newest first.
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.settings.RecentFiles))
	copy(out, s.settings.RecentFiles)
	return out, nil
}

// Close writes the settings file if it is out of date.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.save()
}

// save writes to a temporary file and renames it over the settings file so a
// crash never leaves a half-written file behind. Caller holds s.mu.
func (s *FileStore) save() error {
	if s.settings.RecentFiles == nil {
		s.settings.RecentFiles = []Entry{}
	}
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.dirty = false
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
