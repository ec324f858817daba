package web

// Shared request helpers for the handlers.

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	// defaultPageSize is the number of rows returned when no limit is given.
	defaultPageSize = 1000
	maxPageSize     = 10000

	// multipartOverhead allows for form boundaries and fields around the file.
	multipartOverhead = 1 << 20
	// multipartMemory is kept in memory before the form spills to disk.
	multipartMemory = 32 << 20
)

// page selects data rows: offset is 0-indexed.
type page struct {
	offset int
	limit  int
}

// pageParams reads offset (default 0) and limit (default defaultPageSize,
// capped at maxPageSize).
func pageParams(r *http.Request) (page, error) {
	p := page{limit: defaultPageSize}
	q := r.URL.Query()

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: offset must be a non-negative integer", errBadRequest)
		}
		p.offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest)
		}
		p.limit = min(n, maxPageSize)
	}
	return p, nil
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string, defaultVal bool) (bool, error) {
	return parseBool(r.URL.Query().Get(name), name, defaultVal)
}

func parseBool(val, name string, defaultVal bool) (bool, error) {
	switch val {
	case "":
		return defaultVal, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal, fmt.Errorf("%w: %s must be true or false", errBadRequest, name)
	}
	return b, nil
}

// formValue returns a query parameter, falling back to a multipart form
// field. It never reads the body.
func formValue(r *http.Request, key string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	if r.MultipartForm != nil {
		if vs := r.MultipartForm.Value[key]; len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}
