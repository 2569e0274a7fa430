package service

import (
	"context"

	"progresstracker/internal/repository"
	"progresstracker/internal/stats"
	"progresstracker/pkg/clock"
)

type DashboardService struct {
	projects *repository.ProjectRepository
	reports  *repository.ProgressRepository
	clock    clock.Clock
}

func NewDashboardService(projects *repository.ProjectRepository, reports *repository.ProgressRepository, clk clock.Clock) *DashboardService {
	return &DashboardService{projects: projects, reports: reports, clock: clk}
}

func (s *DashboardService) Stats(ctx context.Context) stats.Dashboard {
	return stats.Overview(s.clock.Now(), s.projects.All(ctx), s.reports.All(ctx))
}
