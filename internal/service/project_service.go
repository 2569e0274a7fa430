package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"progresstracker/internal/event"
	"progresstracker/internal/model"
	"progresstracker/internal/query"
	"progresstracker/internal/repository"
	"progresstracker/internal/stats"
	"progresstracker/internal/validation"
	"progresstracker/pkg/clock"
	"progresstracker/pkg/metrics"
)

type ProjectListParams struct {
	Status    string
	Owner     string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type ProjectService struct {
	// 同一进程内的写操作串行化，避免 load-modify-save 互相覆盖
	mu       sync.Mutex
	projects *repository.ProjectRepository
	events   *event.Emitter
	clock    clock.Clock
}

func NewProjectService(projects *repository.ProjectRepository, events *event.Emitter, clk clock.Clock) *ProjectService {
	return &ProjectService{projects: projects, events: events, clock: clk}
}

func (s *ProjectService) List(ctx context.Context, p ProjectListParams) query.Result[model.Project] {
	schema := query.ProjectSchema

	var filters []query.Filter[model.Project]
	if p.Status != "" {
		filters = append(filters, schema.Equals("status", p.Status))
	}
	if p.Owner != "" {
		filters = append(filters, schema.Contains("owner", p.Owner))
	}

	return schema.Run(s.projects.All(ctx), query.Query[model.Project]{
		Filters:   filters,
		Search:    p.Search,
		SortBy:    p.SortBy,
		SortOrder: query.ParseOrder(p.SortOrder, schema.DefaultOrder),
		Page:      p.Page,
		Limit:     p.Limit,
	})
}

func (s *ProjectService) GetByCode(ctx context.Context, code string) (model.Project, error) {
	p, ok := s.projects.FindByCode(ctx, code)
	if !ok {
		return model.Project{}, fmt.Errorf("project %q: %w", code, ErrNotFound)
	}
	return p, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id int64) (model.Project, error) {
	p, ok := s.projects.FindByID(ctx, id)
	if !ok {
		return model.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	if errs := validation.ValidateProject(in); len(errs) > 0 {
		return model.Project{}, &ValidationError{Details: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	projects := s.projects.All(ctx)
	code := strings.TrimSpace(in.ProjectCode)
	if codeTaken(projects, code, -1) {
		return model.Project{}, fmt.Errorf("project %q: %w", code, ErrConflict)
	}

	id, err := s.projects.NextID(ctx, projects)
	if err != nil {
		return model.Project{}, fmt.Errorf("%w: next id: %w", ErrPersistence, err)
	}

	project := fillProject(model.Project{ID: id, CreatedAt: now}, in)
	project.UpdatedAt = now

	if err := s.projects.SaveAll(ctx, append(projects, project)); err != nil {
		return model.Project{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProjectsCollection, "create")
	s.events.Emit(event.ProjectCreated, project)
	return project, nil
}

// Update merges patch into the project stored under code. The merged record
// is validated as a whole; renaming onto an existing code is a conflict.
func (s *ProjectService) Update(ctx context.Context, code string, patch model.ProjectPatch) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.projects.All(ctx)
	idx := slices.IndexFunc(projects, func(p model.Project) bool { return p.ProjectCode == code })
	if idx < 0 {
		return model.Project{}, fmt.Errorf("project %q: %w", code, ErrNotFound)
	}

	merged := patch.Apply(projects[idx])
	if errs := validation.ValidateProject(merged); len(errs) > 0 {
		return model.Project{}, &ValidationError{Details: errs}
	}
	if newCode := strings.TrimSpace(merged.ProjectCode); codeTaken(projects, newCode, idx) {
		return model.Project{}, fmt.Errorf("project %q: %w", newCode, ErrConflict)
	}

	updated := fillProject(projects[idx], merged)
	updated.UpdatedAt = s.clock.Now().UTC()
	projects[idx] = updated

	if err := s.projects.SaveAll(ctx, projects); err != nil {
		return model.Project{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProjectsCollection, "update")
	s.events.Emit(event.ProjectUpdated, updated)
	return updated, nil
}

// Delete removes the project only. Its progress reports stay in place.
func (s *ProjectService) Delete(ctx context.Context, id int64) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.projects.All(ctx)
	idx := slices.IndexFunc(projects, func(p model.Project) bool { return p.ID == id })
	if idx < 0 {
		return model.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}

	deleted := projects[idx]
	if err := s.projects.SaveAll(ctx, slices.Delete(projects, idx, idx+1)); err != nil {
		return model.Project{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProjectsCollection, "delete")
	s.events.Emit(event.ProjectDeleted, deleted)
	return deleted, nil
}

// BatchUpdateStatus sets status on every listed project that exists.
// Unknown ids are skipped; the result holds only the updated projects,
// in request order.
func (s *ProjectService) BatchUpdateStatus(ctx context.Context, ids []int64, status string) ([]model.Project, error) {
	if len(ids) == 0 {
		return nil, &BatchError{Reason: MsgProjectIDsRequired}
	}
	if !model.ProjectStatus(status).Valid() {
		return nil, &BatchError{Reason: validation.MsgInvalidStatus}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	projects := s.projects.All(ctx)
	index := indexBy(projects, func(p model.Project) int64 { return p.ID })

	updated := []model.Project{}
	for _, id := range lo.Uniq(ids) {
		i, ok := index[id]
		if !ok {
			continue
		}
		projects[i].Status = model.ProjectStatus(status)
		projects[i].UpdatedAt = now
		updated = append(updated, projects[i])
	}
	if len(updated) == 0 {
		return updated, nil
	}

	if err := s.projects.SaveAll(ctx, projects); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProjectsCollection, "batch")
	s.events.Emit(event.ProjectBatchUpdated, updated)
	return updated, nil
}

func (s *ProjectService) Summary(ctx context.Context) stats.ProjectSummary {
	return stats.Projects(s.clock.Now(), s.projects.All(ctx))
}

// fillProject copies validated input fields onto p.
func fillProject(p model.Project, in model.ProjectInput) model.Project {
	p.ProjectCode = strings.TrimSpace(in.ProjectCode)
	p.Name = strings.TrimSpace(in.Name)
	p.Owner = strings.TrimSpace(in.Owner)
	p.StartDate = model.NormalizeDate(in.StartDate)
	p.EndDate = model.NormalizeDate(in.EndDate)
	p.Status = model.StatusPlanning
	if in.Status != "" {
		p.Status = model.ProjectStatus(in.Status)
	}
	p.Description = strings.TrimSpace(in.Description)
	return p
}

// codeTaken reports whether any project other than the one at skip uses code.
func codeTaken(projects []model.Project, code string, skip int) bool {
	for i, p := range projects {
		if i != skip && p.ProjectCode == code {
			return true
		}
	}
	return false
}

func indexBy[T any](items []T, key func(T) int64) map[int64]int {
	index := make(map[int64]int, len(items))
	for i, item := range items {
		if _, dup := index[key(item)]; !dup {
			index[key(item)] = i
		}
	}
	return index
}
