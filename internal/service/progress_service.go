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

// UnknownProjectName labels need-help reports whose project no longer exists.
const UnknownProjectName = "unknown project"

type ProgressListParams struct {
	ProjectCode string
	Reporter    string
	StartDate   string
	EndDate     string
	NeedHelp    string
	Search      string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

type ProgressService struct {
	mu       sync.Mutex
	reports  *repository.ProgressRepository
	projects *repository.ProjectRepository
	events   *event.Emitter
	clock    clock.Clock
}

func NewProgressService(reports *repository.ProgressRepository, projects *repository.ProjectRepository, events *event.Emitter, clk clock.Clock) *ProgressService {
	return &ProgressService{reports: reports, projects: projects, events: events, clock: clk}
}

func (s *ProgressService) List(ctx context.Context, p ProgressListParams) query.Result[model.ProgressReport] {
	schema := query.ProgressSchema

	var filters []query.Filter[model.ProgressReport]
	if p.ProjectCode != "" {
		filters = append(filters, schema.Equals("projectCode", p.ProjectCode))
	}
	if p.Reporter != "" {
		filters = append(filters, schema.Contains("reporter", p.Reporter))
	}
	if p.StartDate != "" || p.EndDate != "" {
		filters = append(filters, schema.DateRange("date", p.StartDate, p.EndDate))
	}
	if p.NeedHelp != "" {
		value := p.NeedHelp
		if nh, ok := validation.NormalizeNeedHelp(value); ok {
			value = string(nh)
		}
		filters = append(filters, schema.Equals("needHelp", value))
	}

	return schema.Run(s.reports.All(ctx), query.Query[model.ProgressReport]{
		Filters:   filters,
		Search:    p.Search,
		SortBy:    p.SortBy,
		SortOrder: query.ParseOrder(p.SortOrder, schema.DefaultOrder),
		Page:      p.Page,
		Limit:     p.Limit,
	})
}

func (s *ProgressService) Get(ctx context.Context, id int64) (model.ProgressReport, error) {
	r, ok := s.reports.FindByID(ctx, id)
	if !ok {
		return model.ProgressReport{}, fmt.Errorf("progress report %d: %w", id, ErrNotFound)
	}
	return r, nil
}

func (s *ProgressService) Create(ctx context.Context, in model.ProgressInput) (model.ProgressReport, error) {
	now := s.clock.Now()
	if errs := validation.ValidateProgress(in, now); len(errs) > 0 {
		return model.ProgressReport{}, &ValidationError{Details: errs}
	}
	code := strings.TrimSpace(in.ProjectCode)
	if !s.projects.ExistsCode(ctx, code) {
		return model.ProgressReport{}, fmt.Errorf("project %q: %w", code, ErrProjectNotExist)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.reports.All(ctx)
	id, err := s.reports.NextID(ctx, reports)
	if err != nil {
		return model.ProgressReport{}, fmt.Errorf("%w: next id: %w", ErrPersistence, err)
	}

	report := fillReport(model.ProgressReport{ID: id, CreatedAt: now.UTC()}, in)
	report.UpdatedAt = now.UTC()

	if err := s.reports.SaveAll(ctx, append(reports, report)); err != nil {
		return model.ProgressReport{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProgressCollection, "create")
	s.events.Emit(event.ProgressCreated, report)
	return report, nil
}

// Update merges patch into report id and re-validates the merged record,
// including the project reference.
func (s *ProgressService) Update(ctx context.Context, id int64, patch model.ProgressPatch) (model.ProgressReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	reports := s.reports.All(ctx)
	idx := slices.IndexFunc(reports, func(r model.ProgressReport) bool { return r.ID == id })
	if idx < 0 {
		return model.ProgressReport{}, fmt.Errorf("progress report %d: %w", id, ErrNotFound)
	}

	merged := patch.Apply(reports[idx])
	if errs := validation.ValidateProgress(merged, now); len(errs) > 0 {
		return model.ProgressReport{}, &ValidationError{Details: errs}
	}
	code := strings.TrimSpace(merged.ProjectCode)
	if !s.projects.ExistsCode(ctx, code) {
		return model.ProgressReport{}, fmt.Errorf("project %q: %w", code, ErrProjectNotExist)
	}

	updated := fillReport(reports[idx], merged)
	updated.UpdatedAt = now.UTC()
	reports[idx] = updated

	if err := s.reports.SaveAll(ctx, reports); err != nil {
		return model.ProgressReport{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProgressCollection, "update")
	s.events.Emit(event.ProgressUpdated, updated)
	return updated, nil
}

func (s *ProgressService) Delete(ctx context.Context, id int64) (model.ProgressReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.reports.All(ctx)
	idx := slices.IndexFunc(reports, func(r model.ProgressReport) bool { return r.ID == id })
	if idx < 0 {
		return model.ProgressReport{}, fmt.Errorf("progress report %d: %w", id, ErrNotFound)
	}

	deleted := reports[idx]
	if err := s.reports.SaveAll(ctx, slices.Delete(reports, idx, idx+1)); err != nil {
		return model.ProgressReport{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProgressCollection, "delete")
	s.events.Emit(event.ProgressDeleted, deleted)
	return deleted, nil
}

// ListByProject returns the reports of one existing project, by date.
func (s *ProgressService) ListByProject(ctx context.Context, code string, limit int, order string) ([]model.ProgressReport, error) {
	if !s.projects.ExistsCode(ctx, code) {
		return nil, fmt.Errorf("project %q: %w", code, ErrNotFound)
	}
	schema := query.ProgressSchema
	res := schema.Run(s.reports.All(ctx), query.Query[model.ProgressReport]{
		Filters:   []query.Filter[model.ProgressReport]{schema.Equals("projectCode", code)},
		SortBy:    "date",
		SortOrder: query.ParseOrder(order, query.Desc),
		Limit:     limit,
	})
	return res.Items, nil
}

// ListByReporter matches the reporter exactly, unlike the list filter.
func (s *ProgressService) ListByReporter(ctx context.Context, reporter, start, end string, limit int, order string) []model.ProgressReport {
	schema := query.ProgressSchema
	res := schema.Run(s.reports.All(ctx), query.Query[model.ProgressReport]{
		Filters: []query.Filter[model.ProgressReport]{
			schema.Equals("reporter", reporter),
			schema.DateRange("date", start, end),
		},
		SortBy:    "date",
		SortOrder: query.ParseOrder(order, query.Desc),
		Limit:     limit,
	})
	return res.Items
}

// NeedHelp lists reports flagged for help, newest first, with their project's
// name and owner attached.
func (s *ProgressService) NeedHelp(ctx context.Context, projectCode string, limit int) []model.NeedHelpReport {
	schema := query.ProgressSchema
	filters := []query.Filter[model.ProgressReport]{schema.Equals("needHelp", string(model.NeedHelpYes))}
	if projectCode != "" {
		filters = append(filters, schema.Equals("projectCode", projectCode))
	}
	res := schema.Run(s.reports.All(ctx), query.Query[model.ProgressReport]{
		Filters:   filters,
		SortBy:    "date",
		SortOrder: query.Desc,
		Limit:     limit,
	})

	projects := lo.KeyBy(s.projects.All(ctx), func(p model.Project) string { return p.ProjectCode })
	return lo.Map(res.Items, func(r model.ProgressReport, _ int) model.NeedHelpReport {
		out := model.NeedHelpReport{ProgressReport: r, ProjectName: UnknownProjectName}
		if p, ok := projects[r.ProjectCode]; ok {
			out.ProjectName = p.Name
			out.ProjectOwner = lo.ToPtr(p.Owner)
		}
		return out
	})
}

// BatchUpdateNeedHelp sets the needs-help flag on every listed report that exists.
func (s *ProgressService) BatchUpdateNeedHelp(ctx context.Context, ids []int64, value string) ([]model.ProgressReport, error) {
	if len(ids) == 0 {
		return nil, &BatchError{Reason: MsgProgressIDsRequired}
	}
	needHelp, ok := validation.NormalizeNeedHelp(value)
	if !ok {
		return nil, &BatchError{Reason: validation.MsgInvalidNeedHelp}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	reports := s.reports.All(ctx)
	index := indexBy(reports, func(r model.ProgressReport) int64 { return r.ID })

	updated := []model.ProgressReport{}
	for _, id := range lo.Uniq(ids) {
		i, ok := index[id]
		if !ok {
			continue
		}
		reports[i].NeedHelp = needHelp
		reports[i].UpdatedAt = now
		updated = append(updated, reports[i])
	}
	if len(updated) == 0 {
		return updated, nil
	}

	if err := s.reports.SaveAll(ctx, reports); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.IncrementMutation(repository.ProgressCollection, "batch")
	s.events.Emit(event.ProgressBatchUpdated, updated)
	return updated, nil
}

func (s *ProgressService) Summary(ctx context.Context) stats.ProgressSummary {
	return stats.Progress(s.clock.Now(), s.projects.All(ctx), s.reports.All(ctx))
}

// fillReport copies validated input onto r. Absent hours default to 0 and an
// absent flag to 否.
func fillReport(r model.ProgressReport, in model.ProgressInput) model.ProgressReport {
	r.Reporter = strings.TrimSpace(in.Reporter)
	r.Date = model.NormalizeDate(in.Date)
	r.ProjectCode = strings.TrimSpace(in.ProjectCode)
	r.WorkHours = 0
	if validation.HoursPresent(in.WorkHours) {
		r.WorkHours, _ = validation.ParseHours(in.WorkHours)
	}
	r.Content = strings.TrimSpace(in.Content)
	r.Blocker = strings.TrimSpace(in.Blocker)
	r.Plan = strings.TrimSpace(in.Plan)
	r.NeedHelp = model.NeedHelpNo
	if nh, ok := validation.NormalizeNeedHelp(in.NeedHelp); ok {
		r.NeedHelp = nh
	}
	return r
}

