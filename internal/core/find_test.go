package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openForFind(t *testing.T) *Service {
	t.Helper()
	svc := NewService(testConfig(), nil, nil)
	_, err := svc.OpenUpload(context.Background(), "people.csv",
		[]byte("Name,City\nAnn,Oslo\nbob,Bergen\nANNA,oslo\n"), svc.DefaultOptions())
	require.NoError(t, err)
	return svc
}

func TestFind(t *testing.T) {
	svc := openForFind(t)

	tests := []struct {
		name  string
		query FindQuery
		want  []Match
	}{
		{
			name:  "case insensitive",
			query: FindQuery{Text: "ann"},
			want:  []Match{{Row: 1, Column: 1, Value: "Ann"}, {Row: 3, Column: 1, Value: "ANNA"}},
		},
		{
			name:  "case sensitive",
			query: FindQuery{Text: "oslo", CaseSensitive: true},
			want:  []Match{{Row: 3, Column: 2, Value: "oslo"}},
		},
		{
			name:  "header row is zero",
			query: FindQuery{Text: "city"},
			want:  []Match{{Row: 0, Column: 2, Value: "City"}},
		},
		{
			name:  "regexp",
			query: FindQuery{Text: "^b", Regexp: true},
			want:  []Match{{Row: 2, Column: 1, Value: "bob"}, {Row: 2, Column: 2, Value: "Bergen"}},
		},
		{
			name:  "regexp case sensitive",
			query: FindQuery{Text: "^B", Regexp: true, CaseSensitive: true},
			want:  []Match{{Row: 2, Column: 2, Value: "Bergen"}},
		},
		{
			name:  "no match",
			query: FindQuery{Text: "trondheim"},
			want:  []Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Find(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Matches)
			assert.False(t, got.Truncated)
		})
	}
}

func TestFind_Limit(t *testing.T) {
	svc := openForFind(t)

	got, err := svc.Find(FindQuery{Text: "o", Limit: 2})
	require.NoError(t, err)
	assert.True(t, got.Truncated)
	assert.Equal(t, []Match{
		{Row: 1, Column: 2, Value: "Oslo"},
		{Row: 2, Column: 1, Value: "bob"},
	}, got.Matches)

	got, err = svc.Find(FindQuery{Text: "o", Limit: 3})
	require.NoError(t, err)
	assert.False(t, got.Truncated)
	assert.Len(t, got.Matches, 3)
}

func TestFind_Errors(t *testing.T) {
	empty := NewService(testConfig(), nil, nil)
	_, err := empty.Find(FindQuery{Text: "x"})
	assert.ErrorIs(t, err, ErrNoDocument)

	svc := openForFind(t)
	_, err = svc.Find(FindQuery{})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = svc.Find(FindQuery{Text: "(", Regexp: true})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, "PARSE005", MapError(err).Code)
}
