package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/models"
)

// setupTestRepo opens a private in-memory database with the schema applied
func setupTestRepo(t *testing.T, opts ...Option) *Repository {
	t.Helper()

	db, err := Open(context.Background(), SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	opts = append([]Option{WithClock(tickingClock())}, opts...)
	return NewRepository(db, opts...)
}

// tickingClock advances one second per call so stored order is deterministic
func tickingClock() func() time.Time {
	var mu sync.Mutex
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

// seedStages creates the labelled stages in order and returns them
func seedStages(t *testing.T, repo *Repository, tenant string, labels ...string) []*models.Stage {
	t.Helper()
	out := make([]*models.Stage, len(labels))
	for i, l := range labels {
		s, err := repo.CreateColumn(context.Background(), tenant, l, "")
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

// positions maps each live stage id to its stored position
func positions(t *testing.T, repo *Repository, tenant string) map[string]int {
	t.Helper()
	rows, err := repo.DB().Query(`SELECT id, position FROM stages WHERE tenant_id = ? AND archived_at IS NULL`, tenant)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var pos int
		require.NoError(t, rows.Scan(&id, &pos))
		out[id] = pos
	}
	require.NoError(t, rows.Err())
	return out
}

func stageLabels(stages []*models.Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Label
	}
	return out
}
