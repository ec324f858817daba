package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvview/internal/table"
)

// Origins of parsed text, used for metrics and logs.
const (
	OriginFile    = "file"
	OriginUpload  = "upload"
	OriginPreview = "preview"
)

// ParseOptions controls how text is split into a table.
type ParseOptions struct {
	Delimiter rune
	HasHeader bool
}

// Document is a successfully parsed table together with where it came from.
// A Document is never modified after it is opened.
type Document struct {
	ID        uuid.UUID
	Name      string
	Path      string // empty for uploads
	Delimiter rune
	HasHeader bool
	Table     *table.Table

	Size          int // bytes of decoded text
	OpenedAt      time.Time
	ParseDuration time.Duration
}

// Origin reports whether the document was read from disk or uploaded.
func (d *Document) Origin() string {
	if d.Path != "" {
		return OriginFile
	}
	return OriginUpload
}
