package history

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set CSVVIEW_TEST_DATABASE_URL to run against a scratch database. The test
// drops and recreates recent_files.
func TestPGStore(t *testing.T) {
	url := os.Getenv("CSVVIEW_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CSVVIEW_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, "DROP TABLE IF EXISTS recent_files")
	require.NoError(t, err)

	s, err := NewPGStore(ctx, pool, 3)
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []string{"a.csv", "b.csv", "c.csv", "a.csv", "d.csv"} {
		require.NoError(t, s.Add(ctx, Entry{
			Path:     p,
			OpenedAt: base.Add(time.Duration(i) * time.Minute),
			Rows:     i,
			Columns:  2,
		}))
	}

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d.csv", "a.csv", "c.csv"}, paths(got))
	assert.Equal(t, 3, got[1].Rows, fmt.Sprintf("%+v", got[1]))
	assert.True(t, got[1].OpenedAt.Equal(base.Add(3*time.Minute)))
}
