package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("a,b\n"), 0o600))
	return p
}

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	s := OpenFileStore(filepath.Join(t.TempDir(), "settings.json"), 5, true)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore_CloseWithoutChangesWritesNothing(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.json")

	require.NoError(t, OpenFileStore(settings, 5, true).Close())
	_, err := os.Stat(settings)
	assert.True(t, os.IsNotExist(err), "no settings file for an untouched store")
}

func TestFileStore_CloseRewritesPrunedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	gone := touch(t, dir, "gone.csv")

	s := OpenFileStore(settings, 5, false)
	require.NoError(t, s.Add(ctx, Entry{Path: gone}))
	require.NoError(t, os.Remove(gone))
	before, err := os.ReadFile(settings)
	require.NoError(t, err)

	require.NoError(t, OpenFileStore(settings, 5, false).Close())
	after, err := os.ReadFile(settings)
	require.NoError(t, err)
	assert.Equal(t, before, after, "unchanged store leaves the file alone")

	require.NoError(t, OpenFileStore(settings, 5, true).Close())
	got, err := OpenFileStore(settings, 5, false).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "pruned entries are written back on close")
}

func TestFileStore_ConfiguredLimitWins(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"recent_files": [], "max_recent_files": 3}`), 0o600))

	require.NoError(t, OpenFileStore(settings, 7, false).Close())

	raw, err := os.ReadFile(settings)
	require.NoError(t, err)
	var decoded settingsFile
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 7, decoded.MaxRecentFiles)
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := OpenFileStore(path, 5, false)
	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore_AddOrdersAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := OpenFileStore(filepath.Join(t.TempDir(), "settings.json"), 3, false)

	for _, p := range []string{"a.csv", "b.csv", "c.csv", "a.csv", "d.csv"} {
		require.NoError(t, s.Add(ctx, Entry{Path: p}))
	}

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d.csv", "a.csv", "c.csv"}, paths(got))
}

func TestFileStore_RejectsEmptyPath(t *testing.T) {
	s := OpenFileStore(filepath.Join(t.TempDir(), "settings.json"), 3, false)
	assert.Error(t, s.Add(context.Background(), Entry{}))
}

func TestFileStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	a := touch(t, dir, "a.csv")
	b := touch(t, dir, "b.tsv")
	opened := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s := OpenFileStore(settings, 10, true)
	require.NoError(t, s.Add(ctx, Entry{Path: a, OpenedAt: opened, Rows: 3, Columns: 2}))
	require.NoError(t, s.Add(ctx, Entry{Path: b, OpenedAt: opened.Add(time.Minute)}))
	require.NoError(t, s.Close())

	reopened := OpenFileStore(settings, 10, true)
	got, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0].Path)
	assert.Equal(t, Entry{Path: a, OpenedAt: opened, Rows: 3, Columns: 2}, got[1])
}

func TestFileStore_VerifyDropsMissingFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	kept := touch(t, dir, "kept.csv")
	gone := touch(t, dir, "gone.csv")

	s := OpenFileStore(settings, 10, true)
	require.NoError(t, s.Add(ctx, Entry{Path: kept}))
	require.NoError(t, s.Add(ctx, Entry{Path: gone}))
	require.NoError(t, os.Remove(gone))

	got, err := OpenFileStore(settings, 10, true).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, paths(got))

	got, err = OpenFileStore(settings, 10, false).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{gone, kept}, paths(got))
}

func TestFileStore_LoadsLegacyPathList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	legacy := `{"recent_files": ["C:\\Temp\\data.csv", "grades.csv"], "last_seen_folder": "C:\\Users\\joe"}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	got, err := OpenFileStore(path, 10, false).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\Temp\data.csv`, "grades.csv"}, paths(got))
}

func TestFileStore_LowerLimitTrimsOnOpen(t *testing.T) {
	ctx := context.Background()
	settings := filepath.Join(t.TempDir(), "settings.json")

	s := OpenFileStore(settings, 10, false)
	for i := 0; i < 6; i++ {
		require.NoError(t, s.Add(ctx, Entry{Path: fmt.Sprintf("%d.csv", i)}))
	}

	got, err := OpenFileStore(settings, 2, false).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5.csv", "4.csv"}, paths(got))
}

func TestFileStore_WritesSettingsLayout(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.json")
	s := OpenFileStore(settings, 4, false)
	require.NoError(t, s.Add(context.Background(), Entry{Path: "x.csv"}))

	raw, err := os.ReadFile(settings)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(4), decoded["max_recent_files"])
	assert.Len(t, decoded["recent_files"], 1)
}

func TestPush(t *testing.T) {
	list := []Entry{{Path: "a"}, {Path: "b"}, {Path: "c"}}

	assert.Equal(t, []string{"b", "a", "c"}, paths(push(list, Entry{Path: "b"}, 5)))
	assert.Equal(t, []string{"z", "a"}, paths(push(list, Entry{Path: "z"}, 2)))
	assert.Equal(t, []string{"a", "b", "c"}, paths(list))
}
