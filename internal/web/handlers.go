package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/csvview/internal/core"
	"github.com/JonMunkholm/csvview/internal/source"
	"github.com/JonMunkholm/csvview/internal/table"
)

// tableResponse is one page of a table.
type tableResponse struct {
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
	Columns  int        `json:"columns"`
	RowCount int        `json:"row_count"`
	Offset   int        `json:"offset"`
}

func newTableResponse(t *table.Table, p page) tableResponse {
	resp := tableResponse{
		Header:   t.Header(),
		Rows:     [][]string{},
		Columns:  t.Columns(),
		RowCount: t.Rows(),
		Offset:   p.offset,
	}
	if resp.Header == nil {
		resp.Header = []string{}
	}
	end := min(p.offset+p.limit, t.Rows())
	for i := p.offset; i < end; i++ {
		resp.Rows = append(resp.Rows, t.Row(i))
	}
	return resp
}

type documentResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Path      string        `json:"path,omitempty"`
	Origin    string        `json:"origin"`
	Delimiter string        `json:"delimiter"`
	HasHeader bool          `json:"has_header"`
	Size      int           `json:"size"`
	OpenedAt  time.Time     `json:"opened_at"`
	ParseMS   float64       `json:"parse_ms"`
	Table     tableResponse `json:"table"`
}

func newDocumentResponse(doc *core.Document, p page) documentResponse {
	return documentResponse{
		ID:        doc.ID.String(),
		Name:      doc.Name,
		Path:      doc.Path,
		Origin:    doc.Origin(),
		Delimiter: source.DelimiterName(doc.Delimiter),
		HasHeader: doc.HasHeader,
		Size:      doc.Size,
		OpenedAt:  doc.OpenedAt,
		ParseMS:   float64(doc.ParseDuration.Microseconds()) / 1000,
		Table:     newTableResponse(doc.Table, p),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleParse validates the request body or a multipart "file" without
// opening it.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	opts, err := s.parseOptions(r, name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.service.ParseUpload(WithRequestMetadata(r.Context(), r), name, data, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, newTableResponse(t, p))
}

// handleOpen makes an uploaded file the open document.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	doc, err := s.openUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newDocumentResponse(doc, page{limit: defaultPageSize}))
}

func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (*core.Document, error) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	opts, err := s.parseOptions(r, name)
	if err != nil {
		return nil, err
	}
	return s.service.OpenUpload(WithRequestMetadata(r.Context(), r), name, data, opts)
}

type openPathRequest struct {
	Path   string `json:"path"`
	Header *bool  `json:"header"`
}

// handleOpenPath opens a file from the server's filesystem.
func (s *Server) handleOpenPath(w http.ResponseWriter, r *http.Request) {
	var req openPathRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		respondError(w, r, fmt.Errorf("%w: path is required", errBadRequest))
		return
	}

	header := s.service.DefaultOptions().HasHeader
	if req.Header != nil {
		header = *req.Header
	}

	doc, err := s.service.OpenFile(WithRequestMetadata(r.Context(), r), req.Path, header)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newDocumentResponse(doc, page{limit: defaultPageSize}))
}

// handleDocument returns the open document, paged with offset and limit.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.service.Current()
	if !ok {
		respondError(w, r, core.ErrNoDocument)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, newDocumentResponse(doc, p))
}

func (s *Server) handleCloseDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Close(WithRequestMetadata(r.Context(), r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFind searches the open document. Query: q, case, regexp, limit.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	caseSensitive, err := parseBoolParam(r, "case", false)
	if err != nil {
		respondError(w, r, err)
		return
	}
	isRegexp, err := parseBoolParam(r, "regexp", false)
	if err != nil {
		respondError(w, r, err)
		return
	}

	res, err := s.service.Find(core.FindQuery{
		Text:          q.Get("q"),
		CaseSensitive: caseSensitive,
		Regexp:        isRegexp,
		Limit:         parseIntParam(r, "limit", core.DefaultFindLimit),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// handleExport downloads the open document. format is csv (default), tsv,
// or any delimiter ParseDelimiter accepts.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	delim, err := source.ParseDelimiter(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	doc, ok := s.service.Current()
	if !ok {
		respondError(w, r, core.ErrNoDocument)
		return
	}

	var buf bytes.Buffer
	if err := doc.Table.Encode(&buf, delim); err != nil {
		respondError(w, r, err)
		return
	}

	contentType, ext := "text/plain; charset=utf-8", ".txt"
	switch delim {
	case ',':
		contentType, ext = "text/csv; charset=utf-8", ".csv"
	case '\t':
		contentType, ext = "text/tab-separated-values; charset=utf-8", ".tsv"
	}
	filename := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name)) + ext

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := s.service.RecentFiles(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, recent)
}

type statusResponse struct {
	Parses   core.LimiterStatus `json:"parses"`
	Document *documentSummary   `json:"document"`
}

type documentSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Parses: s.service.LimiterStatus()}
	if doc, ok := s.service.Current(); ok {
		resp.Document = &documentSummary{
			ID:      doc.ID.String(),
			Name:    doc.Name,
			Rows:    doc.Table.Rows(),
			Columns: doc.Table.Columns(),
		}
	}
	writeJSON(w, resp)
}

// readUpload returns the name and bytes of a multipart "file" field, or of
// the raw request body (named by the "name" query parameter).
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.service.MaxFileSize()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", nil, formError(err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, errNoFile
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, formError(err)
		}
		return header.Filename, data, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, formError(err)
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "request body"
	}
	return name, data, nil
}

// formError keeps size-limit failures recognisable; multipart parsing
// does not always wrap them.
func formError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
		return &source.Error{Kind: source.TooLarge, Err: err}
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// parseOptions reads delimiter and header from the query string or form.
// Without a delimiter the file name's extension decides, then comma.
func (s *Server) parseOptions(r *http.Request, name string) (core.ParseOptions, error) {
	opts := s.service.DefaultOptions()

	if d := formValue(r, "delimiter"); d != "" {
		delim, err := source.ParseDelimiter(d)
		if err != nil {
			return opts, err
		}
		opts.Delimiter = delim
	} else if delim, err := source.DelimiterFor(name); err == nil {
		opts.Delimiter = delim
	}

	header, err := parseBool(formValue(r, "header"), "header", opts.HasHeader)
	if err != nil {
		return opts, err
	}
	opts.HasHeader = header
	return opts, nil
}
