package repository

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"progresstracker/internal/model"
)

type ProjectRepository struct {
	coll *Collection[model.Project]
	seq  Sequence
}

func NewProjectRepository(backend Backend, seq Sequence, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		coll: NewCollection[model.Project](ProjectsCollection, backend, logger),
		seq:  seq,
	}
}

func (r *ProjectRepository) All(ctx context.Context) []model.Project {
	return r.coll.Load(ctx)
}

func (r *ProjectRepository) SaveAll(ctx context.Context, projects []model.Project) error {
	return r.coll.Save(ctx, projects)
}

// NextID returns an id not used by any of projects.
func (r *ProjectRepository) NextID(ctx context.Context, projects []model.Project) (int64, error) {
	floor := lo.Max(lo.Map(projects, func(p model.Project, _ int) int64 { return p.ID }))
	return r.seq.Next(ctx, floor)
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (model.Project, bool) {
	return lo.Find(r.All(ctx), func(p model.Project) bool { return p.ID == id })
}

func (r *ProjectRepository) FindByCode(ctx context.Context, code string) (model.Project, bool) {
	return lo.Find(r.All(ctx), func(p model.Project) bool { return p.ProjectCode == code })
}

func (r *ProjectRepository) ExistsCode(ctx context.Context, code string) bool {
	_, ok := r.FindByCode(ctx, code)
	return ok
}
