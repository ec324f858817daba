package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvview/internal/config"
	"github.com/JonMunkholm/csvview/internal/history"
	"github.com/JonMunkholm/csvview/internal/logging"
	"github.com/JonMunkholm/csvview/internal/metrics"
	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

// ErrNoDocument is returned by operations that need an open document.
var ErrNoDocument = errors.New("no document is open")

// Service owns the open document and runs parses on a bounded pool.
//
// At most one document is open at a time. Opening a new one replaces it
// only after the new text parsed successfully, so a failed open leaves the
// previous document in place.
type Service struct {
	cfg     config.ParseConfig
	limiter *ParseLimiter
	recent  history.Store // may be nil
	metrics *metrics.Metrics

	mu      sync.RWMutex
	current *Document
}

// NewService creates a Service. store and m may be nil to disable recent
// files and metrics respectively.
func NewService(cfg *config.Config, store history.Store, m *metrics.Metrics) *Service {
	return &Service{
		cfg:     cfg.Parse,
		limiter: NewParseLimiter(cfg.Parse.MaxConcurrent, cfg.Parse.MaxWaitTime),
		recent:  store,
		metrics: m,
	}
}

// DefaultOptions returns comma-separated options with the configured header
// default.
func (s *Service) DefaultOptions() ParseOptions {
	return ParseOptions{Delimiter: ',', HasHeader: s.cfg.HasHeader}
}

// MaxFileSize is the configured limit for files and uploads.
func (s *Service) MaxFileSize() int64 { return s.cfg.MaxFileSize }

// Parse validates text and returns its table without changing the open
// document.
func (s *Service) Parse(ctx context.Context, name, text string, opts ParseOptions) (*table.Table, error) {
	t, _, err := s.run(ctx, OriginPreview, name, text, opts)
	return t, err
}

// OpenFile reads the file at path, picks the delimiter from its extension
// and makes it the open document. The path is added to the recent files.
func (s *Service) OpenFile(ctx context.Context, path string, hasHeader bool) (*Document, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	delim, err := source.DelimiterFor(path)
	if err != nil {
		s.metrics.ObserveParse(OriginFile, 0, 0, err)
		return nil, err
	}
	text, err := source.ReadFile(path, s.cfg.MaxFileSize)
	if err != nil {
		s.metrics.ObserveParse(OriginFile, 0, 0, err)
		return nil, err
	}

	opts := ParseOptions{Delimiter: delim, HasHeader: hasHeader}
	t, elapsed, err := s.run(ctx, OriginFile, path, text, opts)
	if err != nil {
		return nil, err
	}

	doc := s.swap(ctx, &Document{
		Name:          filepath.Base(path),
		Path:          path,
		Delimiter:     delim,
		HasHeader:     hasHeader,
		Table:         t,
		Size:          len(text),
		ParseDuration: elapsed,
	})

	if s.recent != nil {
		entry := history.Entry{
			Path:     path,
			OpenedAt: doc.OpenedAt,
			Rows:     t.Rows(),
			Columns:  t.Columns(),
		}
		if err := s.recent.Add(ctx, entry); err != nil {
			logging.FromContext(ctx).Warn("failed to record recent file", "path", path, "error", err)
		}
	}
	return doc, nil
}

// OpenUpload decodes uploaded bytes and makes them the open document.
func (s *Service) OpenUpload(ctx context.Context, name string, data []byte, opts ParseOptions) (*Document, error) {
	text, err := s.decodeUpload(name, data)
	if err != nil {
		s.metrics.ObserveParse(OriginUpload, 0, 0, err)
		return nil, err
	}

	t, elapsed, err := s.run(ctx, OriginUpload, name, text, opts)
	if err != nil {
		return nil, err
	}

	return s.swap(ctx, &Document{
		Name:          name,
		Delimiter:     opts.Delimiter,
		HasHeader:     opts.HasHeader,
		Table:         t,
		Size:          len(text),
		ParseDuration: elapsed,
	}), nil
}

// ParseUpload is Parse for raw uploaded bytes.
func (s *Service) ParseUpload(ctx context.Context, name string, data []byte, opts ParseOptions) (*table.Table, error) {
	text, err := s.decodeUpload(name, data)
	if err != nil {
		s.metrics.ObserveParse(OriginPreview, 0, 0, err)
		return nil, err
	}
	return s.Parse(ctx, name, text, opts)
}

func (s *Service) decodeUpload(name string, data []byte) (string, error) {
	if s.cfg.MaxFileSize > 0 && int64(len(data)) > s.cfg.MaxFileSize {
		return "", &source.Error{
			Kind: source.TooLarge,
			Path: name,
			Err:  fmt.Errorf("%d bytes exceeds limit of %d", len(data), s.cfg.MaxFileSize),
		}
	}
	text, err := source.Decode(data)
	if err != nil {
		var se *source.Error
		if errors.As(err, &se) {
			se.Path = name
		}
		return "", err
	}
	return text, nil
}

// Current returns the open document.
func (s *Service) Current() (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Export writes the open document as delimited text.
func (s *Service) Export(w io.Writer, delimiter rune) error {
	doc, ok := s.Current()
	if !ok {
		return ErrNoDocument
	}
	return doc.Table.Encode(w, delimiter)
}

// Close unloads the open document.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	doc := s.current
	s.current = nil
	s.mu.Unlock()

	if doc == nil {
		return ErrNoDocument
	}
	logging.WithFields(ctx, "document_id", doc.ID, "name", doc.Name).Info("document closed")
	return nil
}

// RecentFiles lists recently opened paths, newest first. It returns an
// empty list when no store is configured.
func (s *Service) RecentFiles(ctx context.Context) ([]history.Entry, error) {
	if s.recent == nil {
		return []history.Entry{}, nil
	}
	return s.recent.List(ctx)
}

// LimiterStatus reports parse slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForParses blocks until running parses finish or ctx is done.
func (s *Service) WaitForParses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

type parseResult struct {
	table   *table.Table
	err     error
	elapsed time.Duration
}

// run scans text on a limiter slot. ctx bounds the wait for the slot and the
// result; a scan that outlives ctx keeps its slot until it finishes.
func (s *Service) run(ctx context.Context, origin, name, text string, opts ParseOptions) (*table.Table, time.Duration, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	logger := logging.WithFields(ctx, "origin", origin, "name", name)

	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.ObserveParse(origin, 0, 0, err)
		logger.Warn("no parse slot available", "error", err)
		return nil, 0, err
	}

	done := make(chan parseResult, 1)
	stop := s.metrics.Start()
	go func() {
		defer s.limiter.Release()
		defer stop()

		start := time.Now()
		t, err := table.Parse(text, opts.Delimiter, opts.HasHeader)
		done <- parseResult{table: t, err: err, elapsed: time.Since(start)}
	}()

	select {
	case r := <-done:
		rows := 0
		if r.table != nil {
			rows = r.table.Rows()
		}
		s.metrics.ObserveParse(origin, r.elapsed, rows, r.err)
		if r.err != nil {
			logger.Info("parse rejected", "result", metrics.Result(r.err), "error", r.err)
			return nil, r.elapsed, r.err
		}
		logger.Debug("parse complete", "rows", rows, "columns", r.table.Columns(), "elapsed", r.elapsed)
		return r.table, r.elapsed, nil

	case <-ctx.Done():
		s.metrics.ObserveParse(origin, 0, 0, ctx.Err())
		logger.Warn("parse abandoned", "error", ctx.Err())
		return nil, 0, ctx.Err()
	}
}

// swap installs doc as the open document.
func (s *Service) swap(ctx context.Context, doc *Document) *Document {
	doc.ID = uuid.New()
	doc.OpenedAt = time.Now().UTC()

	s.mu.Lock()
	prev := s.current
	s.current = doc
	s.mu.Unlock()

	attrs := append([]any{
		"rows", doc.Table.Rows(),
		"columns", doc.Table.Columns(),
		"bytes", doc.Size,
		"elapsed", doc.ParseDuration,
	}, clientAttrs(ctx)...)
	if prev != nil {
		attrs = append(attrs, "replaced", prev.ID)
	}
	logging.WithFields(ctx, "document_id", doc.ID, "name", doc.Name, "origin", doc.Origin()).
		Info("document opened", attrs...)
	return doc
}
