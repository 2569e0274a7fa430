// Package stats derives dashboard aggregates from full collections.
// Every function takes the instant to measure against; none reads the clock,
// so all windows inside one response agree.
package stats

import (
	"math"
	"slices"
	"time"

	"github.com/samber/lo"

	"progresstracker/internal/model"
)

const (
	WeekWindowDays      = 7
	TrendWindowDays     = 30
	RecentProjectsLimit = 5
	DeadlinesLimit      = 5
)

type WindowStats struct {
	Reports   int     `json:"reports"`
	WorkHours float64 `json:"workHours"`
	NeedHelp  int     `json:"needHelp"`
}

type ProjectBucket struct {
	ProjectCode    string  `json:"projectCode"`
	ProjectName    string  `json:"projectName"`
	ReportCount    int     `json:"reportCount"`
	TotalHours     float64 `json:"totalHours"`
	NeedHelpCount  int     `json:"needHelpCount"`
	LastReportDate string  `json:"lastReportDate"`
}

type ReporterBucket struct {
	Reporter       string  `json:"reporter"`
	ReportCount    int     `json:"reportCount"`
	TotalHours     float64 `json:"totalHours"`
	NeedHelpCount  int     `json:"needHelpCount"`
	LastReportDate string  `json:"lastReportDate"`
}

type DayBucket struct {
	Date          string  `json:"date"`
	ReportCount   int     `json:"reportCount"`
	WorkHours     float64 `json:"workHours"`
	NeedHelpCount int     `json:"needHelpCount"`
}

type ProgressSummary struct {
	Total            int              `json:"total"`
	NeedHelpCount    int              `json:"needHelpCount"`
	TotalWorkHours   float64          `json:"totalWorkHours"`
	AverageWorkHours float64          `json:"averageWorkHours"`
	ThisWeek         WindowStats      `json:"thisWeek"`
	ByProject        []ProjectBucket  `json:"byProject"`
	ByReporter       []ReporterBucket `json:"byReporter"`
	RecentTrend      []DayBucket      `json:"recentTrend"`
}

type Deadline struct {
	model.Project
	DaysUntilDeadline int `json:"daysUntilDeadline"`
}

type ProjectSummary struct {
	Total             int                         `json:"total"`
	ByStatus          map[model.ProjectStatus]int `json:"byStatus"`
	RecentProjects    []model.Project             `json:"recentProjects"`
	UpcomingDeadlines []Deadline                  `json:"upcomingDeadlines"`
}

type Dashboard struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalReports      int     `json:"totalReports"`
	NeedHelpCount     int     `json:"needHelpCount"`
	ThisWeekReports   int     `json:"thisWeekReports"`
	TotalWorkHours    float64 `json:"totalWorkHours"`
}

func Progress(now time.Time, projects []model.Project, reports []model.ProgressReport) ProgressSummary {
	total := sumHours(reports)
	week := since(now, reports, WeekWindowDays)

	return ProgressSummary{
		Total:            len(reports),
		NeedHelpCount:    countNeedHelp(reports),
		TotalWorkHours:   total,
		AverageWorkHours: average(total, len(reports)),
		ThisWeek: WindowStats{
			Reports:   len(week),
			WorkHours: sumHours(week),
			NeedHelp:  countNeedHelp(week),
		},
		ByProject:   byProject(projects, reports, now.Location()),
		ByReporter:  byReporter(reports, now.Location()),
		RecentTrend: trend(since(now, reports, TrendWindowDays)),
	}
}

func Projects(now time.Time, projects []model.Project) ProjectSummary {
	byStatus := make(map[model.ProjectStatus]int, len(model.ProjectStatuses))
	for _, s := range model.ProjectStatuses {
		byStatus[s] = 0
	}
	for _, p := range projects {
		if _, known := byStatus[p.Status]; known {
			byStatus[p.Status]++
		}
	}

	recent := append([]model.Project{}, projects...)
	slices.SortStableFunc(recent, func(a, b model.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return ProjectSummary{
		Total:             len(projects),
		ByStatus:          byStatus,
		RecentProjects:    lo.Slice(recent, 0, RecentProjectsLimit),
		UpcomingDeadlines: deadlines(now, projects),
	}
}

func Overview(now time.Time, projects []model.Project, reports []model.ProgressReport) Dashboard {
	return Dashboard{
		TotalProjects:     len(projects),
		ActiveProjects:    lo.CountBy(projects, func(p model.Project) bool { return p.Status == model.StatusActive }),
		CompletedProjects: lo.CountBy(projects, func(p model.Project) bool { return p.Status == model.StatusCompleted }),
		TotalReports:      len(reports),
		NeedHelpCount:     countNeedHelp(reports),
		ThisWeekReports:   len(since(now, reports, WeekWindowDays)),
		TotalWorkHours:    sumHours(reports),
	}
}

func byProject(projects []model.Project, reports []model.ProgressReport, loc *time.Location) []ProjectBucket {
	grouped := lo.GroupBy(reports, func(r model.ProgressReport) string { return r.ProjectCode })

	buckets := lo.FilterMap(projects, func(p model.Project, _ int) (ProjectBucket, bool) {
		group := grouped[p.ProjectCode]
		if len(group) == 0 {
			return ProjectBucket{}, false
		}
		return ProjectBucket{
			ProjectCode:    p.ProjectCode,
			ProjectName:    p.Name,
			ReportCount:    len(group),
			TotalHours:     sumHours(group),
			NeedHelpCount:  countNeedHelp(group),
			LastReportDate: latestDate(group, loc),
		}, true
	})
	return buckets
}

func byReporter(reports []model.ProgressReport, loc *time.Location) []ReporterBucket {
	order := lo.Uniq(lo.Map(reports, func(r model.ProgressReport, _ int) string { return r.Reporter }))
	grouped := lo.GroupBy(reports, func(r model.ProgressReport) string { return r.Reporter })

	return lo.Map(order, func(name string, _ int) ReporterBucket {
		group := grouped[name]
		return ReporterBucket{
			Reporter:       name,
			ReportCount:    len(group),
			TotalHours:     sumHours(group),
			NeedHelpCount:  countNeedHelp(group),
			LastReportDate: latestDate(group, loc),
		}
	})
}

func trend(reports []model.ProgressReport) []DayBucket {
	grouped := lo.GroupBy(reports, func(r model.ProgressReport) string { return r.Date })
	days := lo.Keys(grouped)
	slices.Sort(days)

	return lo.Map(days, func(day string, _ int) DayBucket {
		group := grouped[day]
		return DayBucket{
			Date:          day,
			ReportCount:   len(group),
			WorkHours:     sumHours(group),
			NeedHelpCount: countNeedHelp(group),
		}
	})
}

// deadlines lists unfinished projects with an end date, soonest first.
// Overdue projects are included with a negative day count.
func deadlines(now time.Time, projects []model.Project) []Deadline {
	type dated struct {
		p   model.Project
		end time.Time
	}
	candidates := lo.FilterMap(projects, func(p model.Project, _ int) (dated, bool) {
		if p.EndDate == "" || p.Status == model.StatusCompleted {
			return dated{}, false
		}
		end, err := model.ParseDate(p.EndDate, now.Location())
		if err != nil {
			return dated{}, false
		}
		return dated{p: p, end: end}, true
	})
	slices.SortStableFunc(candidates, func(a, b dated) int { return a.end.Compare(b.end) })

	return lo.Map(lo.Slice(candidates, 0, DeadlinesLimit), func(d dated, _ int) Deadline {
		return Deadline{
			Project:           d.p,
			DaysUntilDeadline: int(math.Ceil(d.end.Sub(now).Hours() / 24)),
		}
	})
}

// since keeps reports dated on or after today minus days.
func since(now time.Time, reports []model.ProgressReport, days int) []model.ProgressReport {
	cutoff := model.StartOfDay(now).AddDate(0, 0, -days)
	return lo.Filter(reports, func(r model.ProgressReport, _ int) bool {
		d, err := model.ParseDate(r.Date, now.Location())
		return err == nil && !d.Before(cutoff)
	})
}

func latestDate(reports []model.ProgressReport, loc *time.Location) string {
	latest := lo.MaxBy(reports, func(a, b model.ProgressReport) bool {
		ad, _ := model.ParseDate(a.Date, loc)
		bd, _ := model.ParseDate(b.Date, loc)
		return ad.After(bd)
	})
	return latest.Date
}

func sumHours(reports []model.ProgressReport) float64 {
	return lo.SumBy(reports, func(r model.ProgressReport) float64 { return r.WorkHours })
}

func countNeedHelp(reports []model.ProgressReport) int {
	return lo.CountBy(reports, model.ProgressReport.NeedsHelp)
}

// average rounds to one decimal and is 0 for an empty set.
func average(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(total/float64(n)*10) / 10
}
