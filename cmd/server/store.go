package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"progresstracker/config"
	"progresstracker/internal/repository"
	"progresstracker/pkg/db"
	"progresstracker/pkg/redis"
)

type store struct {
	backend     repository.Backend
	projectSeq  repository.Sequence
	progressSeq repository.Sequence
	close       func()
}

// openStore builds the backend named by storage.driver. Only the redis
// driver shares its id counters across processes.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store, error) {
	switch cfg.Storage.Driver {
	case "redis":
		rdb, err := redis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		prefix := cfg.Storage.KeyPrefix
		return &store{
			backend:     repository.NewRedisBackend(rdb, prefix),
			projectSeq:  repository.NewRedisSequence(rdb, prefix, repository.ProjectsCollection),
			progressSeq: repository.NewRedisSequence(rdb, prefix, repository.ProgressCollection),
			close:       func() { _ = rdb.Close() },
		}, nil

	case "postgres":
		pool, err := db.NewConnection(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		backend := repository.NewPostgresBackend(pool)
		if err := backend.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		seq := repository.NewTimeSequence(time.Now)
		return &store{backend: backend, projectSeq: seq, progressSeq: seq, close: pool.Close}, nil

	case "file":
		backend, err := repository.NewFileBackend(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		if err := backend.Init(repository.Collections...); err != nil {
			return nil, err
		}
		seq := repository.NewTimeSequence(time.Now)
		return &store{backend: backend, projectSeq: seq, progressSeq: seq, close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
