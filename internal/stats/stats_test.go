package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progresstracker/internal/model"
)

var now = time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)

func report(id int64, code, reporter, date string, hours float64, help bool) model.ProgressReport {
	r := model.ProgressReport{
		ID:          id,
		ProjectCode: code,
		Reporter:    reporter,
		Date:        date,
		WorkHours:   hours,
		NeedHelp:    model.NeedHelpNo,
	}
	if help {
		r.NeedHelp = model.NeedHelpYes
	}
	return r
}

func TestProgress_EmptySet(t *testing.T) {
	s := Progress(now, nil, nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.AverageWorkHours)
	assert.Empty(t, s.ByProject)
	assert.Empty(t, s.ByReporter)
	assert.Empty(t, s.RecentTrend)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"averageWorkHours":0`)
	assert.NotContains(t, string(b), "null")
}

func TestProgress_Aggregates(t *testing.T) {
	projects := []model.Project{
		{ProjectCode: "A", Name: "Alpha"},
		{ProjectCode: "B", Name: "Beta"},
		{ProjectCode: "C", Name: "Gamma"},
	}
	reports := []model.ProgressReport{
		report(1, "A", "ann", "2025-06-29", 8, false),
		report(2, "A", "bob", "2025-06-23", 4, true),  // exactly 7 days back
		report(3, "B", "ann", "2025-06-22", 3, false), // outside the week
		report(4, "A", "ann", "2025-05-01", 1, true),  // outside the trend window
		report(5, "ZZ", "cat", "2025-06-29", 2, false),
	}

	s := Progress(now, projects, reports)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.NeedHelpCount)
	assert.Equal(t, 18.0, s.TotalWorkHours)
	assert.Equal(t, 3.6, s.AverageWorkHours)
	assert.Equal(t, WindowStats{Reports: 3, WorkHours: 14, NeedHelp: 1}, s.ThisWeek)

	// C has no reports and the orphan ZZ is not a known project
	require.Len(t, s.ByProject, 2)
	assert.Equal(t, ProjectBucket{
		ProjectCode: "A", ProjectName: "Alpha", ReportCount: 3, TotalHours: 13, NeedHelpCount: 2, LastReportDate: "2025-06-29",
	}, s.ByProject[0])
	assert.Equal(t, "B", s.ByProject[1].ProjectCode)

	names := lo.Map(s.ByReporter, func(b ReporterBucket, _ int) string { return b.Reporter })
	assert.Equal(t, []string{"ann", "bob", "cat"}, names)
	assert.Equal(t, 3, s.ByReporter[0].ReportCount)
	assert.Equal(t, "2025-06-29", s.ByReporter[0].LastReportDate)

	days := lo.Map(s.RecentTrend, func(b DayBucket, _ int) string { return b.Date })
	assert.Equal(t, []string{"2025-06-22", "2025-06-23", "2025-06-29"}, days)
	assert.Equal(t, DayBucket{Date: "2025-06-29", ReportCount: 2, WorkHours: 10}, s.RecentTrend[2])
}

func TestProjects_StatusAndDeadlines(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	projects := []model.Project{
		{ID: 1, Status: model.StatusActive, EndDate: "2025-07-10", CreatedAt: base},
		{ID: 2, Status: model.StatusCompleted, EndDate: "2025-07-01", CreatedAt: base.Add(time.Hour)},
		{ID: 3, Status: model.StatusPlanning, EndDate: "2025-06-28", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Status: model.StatusActive, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Status: model.StatusActive, EndDate: "2025-07-01", CreatedAt: base.Add(4 * time.Hour)},
		{ID: 6, Status: model.StatusActive, EndDate: "2025-08-01", CreatedAt: base.Add(5 * time.Hour)},
		{ID: 7, Status: model.StatusActive, EndDate: "2025-09-01", CreatedAt: base.Add(6 * time.Hour)},
		{ID: 8, Status: model.StatusActive, EndDate: "2025-10-01", CreatedAt: base.Add(7 * time.Hour)},
	}

	s := Projects(now, projects)

	assert.Equal(t, 8, s.Total)
	assert.Equal(t, map[model.ProjectStatus]int{
		model.StatusPlanning:  1,
		model.StatusActive:    6,
		model.StatusOnHold:    0,
		model.StatusCompleted: 1,
	}, s.ByStatus)

	recent := lo.Map(s.RecentProjects, func(p model.Project, _ int) int64 { return p.ID })
	assert.Equal(t, []int64{8, 7, 6, 5, 4}, recent)

	require.Len(t, s.UpcomingDeadlines, DeadlinesLimit)
	ids := lo.Map(s.UpcomingDeadlines, func(d Deadline, _ int) int64 { return d.ID })
	assert.Equal(t, []int64{3, 5, 1, 6, 7}, ids)
	// now is 15:00 on the 30th
	assert.Equal(t, -2, s.UpcomingDeadlines[0].DaysUntilDeadline)
	assert.Equal(t, 1, s.UpcomingDeadlines[1].DaysUntilDeadline)
	assert.Equal(t, 10, s.UpcomingDeadlines[2].DaysUntilDeadline)
}

func TestOverview(t *testing.T) {
	projects := []model.Project{
		{Status: model.StatusActive},
		{Status: model.StatusCompleted},
		{Status: model.StatusActive},
	}
	reports := []model.ProgressReport{
		report(1, "A", "ann", "2025-06-29", 2.5, true),
		report(2, "A", "ann", "2025-01-01", 1, false),
	}

	d := Overview(now, projects, reports)
	assert.Equal(t, Dashboard{
		TotalProjects:     3,
		ActiveProjects:    2,
		CompletedProjects: 1,
		TotalReports:      2,
		NeedHelpCount:     1,
		ThisWeekReports:   1,
		TotalWorkHours:    3.5,
	}, d)
}
