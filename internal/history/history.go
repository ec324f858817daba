// Package history persists the list of recently opened files.
//
// Two stores are provided: FileStore keeps the list in a JSON settings file
// next to the binary, PGStore keeps it in PostgreSQL so several server
// instances can share it. Both return entries newest first, hold each path
// at most once and never more than their configured maximum.
package history

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultMaxRecentFiles is used when a store is created with a zero limit.
const DefaultMaxRecentFiles = 10

// Entry is one recently opened file.
type Entry struct {
	Path     string    `json:"path"`
	OpenedAt time.Time `json:"opened_at"`
	Rows     int       `json:"rows"`
	Columns  int       `json:"columns"`
}

// UnmarshalJSON also accepts a bare path string, the format older settings
// files used for recent_files.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*e = Entry{Path: path}
		return nil
	}

	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

// Store records and lists recent files.
type Store interface {
	// Add moves e to the front of the list, replacing any older entry for
	// the same path.
	Add(ctx context.Context, e Entry) error

	// List returns entries newest first.
	List(ctx context.Context) ([]Entry, error)

	Close() error
}

// push returns list with e at the front, earlier entries for e.Path
// removed, trimmed to max.
func push(list []Entry, e Entry, max int) []Entry {
	out := make([]Entry, 0, len(list)+1)
	out = append(out, e)
	for _, old := range list {
		if old.Path != e.Path {
			out = append(out, old)
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}
