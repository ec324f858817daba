package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvview/internal/table"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr bool
	}{
		{name: "plain", input: []byte("a,b\n1,2"), want: "a,b\n1,2"},
		{name: "bom stripped", input: append([]byte{0xEF, 0xBB, 0xBF}, "a,b"...), want: "a,b"},
		{name: "only bom", input: []byte{0xEF, 0xBB, 0xBF}, want: ""},
		{name: "empty", input: []byte{}, want: ""},
		{name: "multibyte", input: []byte("日本,€"), want: "日本,€"},
		{name: "bom only at start", input: []byte("a\ufeffb"), want: "a\ufeffb"},
		{name: "partial bom is invalid", input: []byte{0xEF, 0xBB, 'a'}, wantErr: true},
		{name: "latin1 byte", input: []byte{'h', 0xE9, 'l'}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, Encoding))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_ReportsOffset(t *testing.T) {
	_, err := Decode([]byte{'a', 'b', 0xFF})
	require.Error(t, err)
	assert.Equal(t, "encoding error: invalid UTF-8 at byte 2", err.Error())
}

func TestReadFile(t *testing.T) {
	path := writeFile(t, "data.csv", append([]byte{0xEF, 0xBB, 0xBF}, "h1,h2\nv1,v2\n"...))

	got, err := ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "h1,h2\nv1,v2\n", got)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("not found", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.csv"), 0)
		assert.True(t, IsKind(err, NotFound))
		assert.Contains(t, err.Error(), "file not found")
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadFile(dir, 0)
		assert.True(t, IsKind(err, Unsupported))
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, "big.csv", []byte(strings.Repeat("a,b\n", 100)))
		_, err := ReadFile(path, 10)
		assert.True(t, IsKind(err, TooLarge))
		assert.Contains(t, err.Error(), "file too large")
	})

	t.Run("exactly at limit", func(t *testing.T) {
		path := writeFile(t, "edge.csv", []byte("a,b\n"))
		got, err := ReadFile(path, 4)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n", got)
	})

	t.Run("decode error carries path", func(t *testing.T) {
		path := writeFile(t, "bad.csv", []byte{'a', 0xC3})
		_, err := ReadFile(path, 0)
		var se *Error
		require.True(t, errors.As(err, &se))
		assert.Equal(t, Encoding, se.Kind)
		assert.Equal(t, path, se.Path)
	})
}

func TestDelimiterFor(t *testing.T) {
	tests := []struct {
		path    string
		want    rune
		wantErr bool
	}{
		{path: "data.csv", want: ','},
		{path: "/tmp/DATA.CSV", want: ','},
		{path: "data.tsv", want: '\t'},
		{path: "notes.txt", want: '\t'},
		{path: "data.xlsx", wantErr: true},
		{path: "README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DelimiterFor(tt.path)
			if tt.wantErr {
				assert.True(t, IsKind(err, Unsupported))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: "", want: ','},
		{in: "comma", want: ','},
		{in: "TAB", want: '\t'},
		{in: `\t`, want: '\t'},
		{in: "\t", want: '\t'},
		{in: ";", want: ';'},
		{in: "pipe", want: '|'},
		{in: "§", want: '§'},
		{in: `"`, wantErr: true},
		{in: "\n", wantErr: true},
		{in: "\r", wantErr: true},
		{in: ",,", wantErr: true},
		{in: string([]byte{0xFF}), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, table.ErrInvalidDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelimiterName(t *testing.T) {
	for _, name := range []string{"comma", "tab", "semicolon", "pipe"} {
		d, err := ParseDelimiter(name)
		require.NoError(t, err)
		assert.Equal(t, name, DelimiterName(d))
	}
	assert.Equal(t, "#", DelimiterName('#'))
}
