package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"progresstracker/internal/repository"
)

func TestSnapshot_WritesEveryCollection(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	backend, err := repository.NewFileBackend(filepath.Join(root, "data"))
	require.NoError(t, err)
	require.NoError(t, backend.Write(ctx, repository.ProjectsCollection, []byte(`[{"id":1}]`)))

	at := time.Date(2025, 6, 30, 23, 59, 58, 0, time.Local)
	s := NewScheduler(backend, filepath.Join(root, "backups"), zap.NewNop(), func() time.Time { return at })

	dir, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "backups", "20250630-235958"), dir)

	projects, err := os.ReadFile(filepath.Join(dir, "projects.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(projects))

	// progress.json was never created in the store
	progress, err := os.ReadFile(filepath.Join(dir, "progress.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(progress))
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	backend, err := repository.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := NewScheduler(backend, t.TempDir(), zap.NewNop(), nil)

	assert.Error(t, s.Start("not a schedule"))
	assert.NoError(t, s.Start(""))
}

func TestStartStop(t *testing.T) {
	backend, err := repository.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := NewScheduler(backend, t.TempDir(), zap.NewNop(), nil)

	require.NoError(t, s.Start("@daily"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
