package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidQuery is returned by Find for an empty search or a bad pattern.
var ErrInvalidQuery = errors.New("invalid search")

// DefaultFindLimit caps matches when FindQuery.Limit is zero.
const DefaultFindLimit = 500

// FindQuery describes a search over the open document's cells.
type FindQuery struct {
	Text          string
	CaseSensitive bool
	Regexp        bool // Text is a regular expression
	Limit         int
}

// Match is one cell that matched. Row 0 is the header; data rows and
// columns are numbered from 1.
type Match struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  string `json:"value"`
}

// FindResult lists matches in row-major order.
type FindResult struct {
	Matches   []Match `json:"matches"`
	Truncated bool    `json:"truncated"`
}

// Find searches the header and data cells of the open document.
func (s *Service) Find(q FindQuery) (FindResult, error) {
	doc, ok := s.Current()
	if !ok {
		return FindResult{}, ErrNoDocument
	}

	match, err := q.matcher()
	if err != nil {
		return FindResult{}, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}

	res := FindResult{Matches: []Match{}}
	add := func(row, col int, v string) bool {
		if !match(v) {
			return true
		}
		if len(res.Matches) == limit {
			res.Truncated = true
			return false
		}
		res.Matches = append(res.Matches, Match{Row: row, Column: col, Value: v})
		return true
	}

	for c, v := range doc.Table.Header() {
		if !add(0, c+1, v) {
			return res, nil
		}
	}
	for r, row := range doc.Table.Records() {
		for c, v := range row {
			if !add(r+1, c+1, v) {
				return res, nil
			}
		}
	}
	return res, nil
}

func (q FindQuery) matcher() (func(string) bool, error) {
	if q.Text == "" {
		return nil, fmt.Errorf("%w: empty search text", ErrInvalidQuery)
	}

	if q.Regexp {
		expr := q.Text
		if !q.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		return re.MatchString, nil
	}

	if q.CaseSensitive {
		return func(v string) bool { return strings.Contains(v, q.Text) }, nil
	}
	needle := strings.ToLower(q.Text)
	return func(v string) bool { return strings.Contains(strings.ToLower(v), needle) }, nil
}
