package repository

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"progresstracker/internal/model"
)

type ProgressRepository struct {
	coll *Collection[model.ProgressReport]
	seq  Sequence
}

func NewProgressRepository(backend Backend, seq Sequence, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{
		coll: NewCollection[model.ProgressReport](ProgressCollection, backend, logger),
		seq:  seq,
	}
}

func (r *ProgressRepository) All(ctx context.Context) []model.ProgressReport {
	return r.coll.Load(ctx)
}

func (r *ProgressRepository) SaveAll(ctx context.Context, reports []model.ProgressReport) error {
	return r.coll.Save(ctx, reports)
}

func (r *ProgressRepository) NextID(ctx context.Context, reports []model.ProgressReport) (int64, error) {
	floor := lo.Max(lo.Map(reports, func(p model.ProgressReport, _ int) int64 { return p.ID }))
	return r.seq.Next(ctx, floor)
}

func (r *ProgressRepository) FindByID(ctx context.Context, id int64) (model.ProgressReport, bool) {
	return lo.Find(r.All(ctx), func(p model.ProgressReport) bool { return p.ID == id })
}
