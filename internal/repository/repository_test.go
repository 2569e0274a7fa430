package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"progresstracker/internal/model"
)

func newFileBackend(t *testing.T) *FileBackend {
	t.Helper()
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	require.NoError(t, b.Init(Collections...))
	return b
}

func sampleProjects() []model.Project {
	at := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	return []model.Project{
		{ID: 1, ProjectCode: "A-1", Name: "Alpha", Status: model.StatusActive, StartDate: "2025-06-01", CreatedAt: at, UpdatedAt: at},
		{ID: 2, ProjectCode: "B-2", Name: "进度 <beta> & co", Owner: "张三", Status: model.StatusPlanning, CreatedAt: at, UpdatedAt: at},
	}
}

func TestFileBackend_InitCreatesEmptyArrays(t *testing.T) {
	b := newFileBackend(t)

	for _, c := range Collections {
		data, err := os.ReadFile(b.Path(c))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	}

	// Init keeps existing content
	require.NoError(t, os.WriteFile(b.Path(ProjectsCollection), []byte(`[{"id":1}]`), 0o644))
	require.NoError(t, b.Init(Collections...))
	data, err := os.ReadFile(b.Path(ProjectsCollection))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))
}

func TestCollection_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newFileBackend(t)
	coll := NewCollection[model.Project](ProjectsCollection, b, zap.NewNop())

	require.NoError(t, coll.Save(ctx, sampleProjects()))
	first, err := b.Read(ctx, ProjectsCollection)
	require.NoError(t, err)

	loaded := coll.Load(ctx)
	assert.Equal(t, sampleProjects(), loaded)

	require.NoError(t, coll.Save(ctx, loaded))
	second, err := b.Read(ctx, ProjectsCollection)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	assert.Contains(t, string(first), "\n  {\n    \"id\": 1,")
	assert.Contains(t, string(first), "进度 <beta> & co")
}

func TestCollection_LoadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	b := newFileBackend(t)
	coll := NewCollection[model.ProgressReport](ProgressCollection, b, zap.NewNop())

	require.NoError(t, os.WriteFile(b.Path(ProgressCollection), []byte(`{not json`), 0o644))
	got := coll.Load(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, os.Remove(b.Path(ProgressCollection)))
	got = coll.Load(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(b.Path(ProgressCollection), []byte(`null`), 0o644))
	assert.NotNil(t, coll.Load(ctx))
}

func TestCollection_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	b := newFileBackend(t)
	coll := NewCollection[model.Project](ProjectsCollection, b, zap.NewNop())

	require.NoError(t, coll.Save(ctx, nil))
	data, err := b.Read(ctx, ProjectsCollection)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCollection_SaveReportsWriteFailure(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	// a directory where the file should be makes the write fail
	require.NoError(t, os.Mkdir(b.Path(ProjectsCollection), 0o755))

	coll := NewCollection[model.Project](ProjectsCollection, b, zap.NewNop())
	assert.Error(t, coll.Save(ctx, sampleProjects()))
}

func TestTimeSequence_MonotonicWithinMillisecond(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seq := NewTimeSequence(func() time.Time { return fixed })

	a, err := seq.Next(ctx, 0)
	require.NoError(t, err)
	b, err := seq.Next(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, fixed.UnixMilli(), a)
	assert.Equal(t, a+1, b)

	c, err := seq.Next(ctx, fixed.UnixMilli()+1000)
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli()+1001, c)
}

func TestTimeSequence_ConcurrentUnique(t *testing.T) {
	ctx := context.Background()
	seq := NewTimeSequence(nil)

	const n = 200
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := seq.Next(ctx, 0)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestProjectRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	b := newFileBackend(t)
	repo := NewProjectRepository(b, NewTimeSequence(nil), zap.NewNop())

	require.NoError(t, repo.SaveAll(ctx, sampleProjects()))

	p, ok := repo.FindByCode(ctx, "B-2")
	require.True(t, ok)
	assert.Equal(t, int64(2), p.ID)

	_, ok = repo.FindByID(ctx, 3)
	assert.False(t, ok)
	assert.True(t, repo.ExistsCode(ctx, "A-1"))
	assert.False(t, repo.ExistsCode(ctx, "a-1"))

	id, err := repo.NextID(ctx, []model.Project{{ID: 1 << 50}})
	require.NoError(t, err)
	assert.Equal(t, int64(1<<50)+1, id)
}
