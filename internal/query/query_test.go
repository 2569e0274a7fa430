package query

import (
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progresstracker/internal/model"
)

func reports(n int, code string) []model.ProgressReport {
	out := make([]model.ProgressReport, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.ProgressReport{
			ID:          int64(i),
			Reporter:    fmt.Sprintf("r%02d", i),
			Date:        fmt.Sprintf("2025-05-%02d", i),
			ProjectCode: code,
			WorkHours:   float64(i % 9),
			NeedHelp:    model.NeedHelpNo,
		})
	}
	return out
}

func TestRun_FilterSortPaginate(t *testing.T) {
	items := append(reports(25, "X"), reports(7, "Y")...)

	res := ProgressSchema.Run(items, Query[model.ProgressReport]{
		Filters:   []Filter[model.ProgressReport]{ProgressSchema.Equals("projectCode", "X")},
		SortBy:    "date",
		SortOrder: Desc,
		Page:      2,
		Limit:     10,
	})

	require.Len(t, res.Items, 10)
	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 10, res.Limit)
	// records 11-20 of the descending order are dates 15..06
	assert.Equal(t, "2025-05-15", res.Items[0].Date)
	assert.Equal(t, "2025-05-06", res.Items[9].Date)
	for _, r := range res.Items {
		assert.Equal(t, "X", r.ProjectCode)
	}
}

func TestRun_LimitOnlyAndNoPaging(t *testing.T) {
	items := reports(5, "X")

	res := ProgressSchema.Run(items, Query[model.ProgressReport]{Limit: 2})
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	// default report sort is newest first
	assert.Equal(t, "2025-05-05", res.Items[0].Date)

	res = ProgressSchema.Run(items, Query[model.ProgressReport]{Page: 3})
	assert.Len(t, res.Items, 5)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 5, res.Limit)

	res = ProgressSchema.Run(items, Query[model.ProgressReport]{Page: 9, Limit: 2})
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 5, res.Total)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	items := reports(3, "X")
	_ = ProgressSchema.Run(items, Query[model.ProgressReport]{SortOrder: Desc})
	assert.Equal(t, int64(1), items[0].ID)
}

func TestRun_StableSortOnEqualKeys(t *testing.T) {
	items := []model.ProgressReport{
		{ID: 1, Date: "2025-05-01", WorkHours: 4},
		{ID: 2, Date: "2025-05-02", WorkHours: 4},
		{ID: 3, Date: "2025-05-03", WorkHours: 2},
		{ID: 4, Date: "2025-05-04", WorkHours: 4},
	}
	res := ProgressSchema.Run(items, Query[model.ProgressReport]{SortBy: "workHours", SortOrder: Asc})
	ids := lo.Map(res.Items, func(r model.ProgressReport, _ int) int64 { return r.ID })
	assert.Equal(t, []int64{3, 1, 2, 4}, ids)
}

func TestRun_StringSortIsCollated(t *testing.T) {
	items := []model.ProgressReport{
		{ID: 1, Reporter: "bob"},
		{ID: 2, Reporter: "Alice"},
		{ID: 3, Reporter: "alice"},
		{ID: 4, Reporter: "Émile"},
	}
	res := ProgressSchema.Run(items, Query[model.ProgressReport]{SortBy: "reporter", SortOrder: Asc})
	names := lo.Map(res.Items, func(r model.ProgressReport, _ int) string { return r.Reporter })
	// case and accents do not outrank the base letter
	assert.Equal(t, "bob", names[2])
	assert.Equal(t, "Émile", names[3])
}

func TestRun_UnknownSortKeepsOrder(t *testing.T) {
	items := reports(3, "X")
	res := ProgressSchema.Run(items, Query[model.ProgressReport]{SortBy: "nope"})
	ids := lo.Map(res.Items, func(r model.ProgressReport, _ int) int64 { return r.ID })
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestFilters(t *testing.T) {
	items := []model.ProgressReport{
		{ID: 1, Reporter: "Alice Wang", Date: "2025-05-01", Content: "Fixed LOGIN bug", NeedHelp: model.NeedHelpYes},
		{ID: 2, Reporter: "Bob", Date: "2025-05-10", Blocker: "waiting on login API"},
		{ID: 3, Reporter: "Carol", Date: "2025-05-20", Plan: "deploy"},
	}

	ids := func(q Query[model.ProgressReport]) []int64 {
		q.SortBy = "id"
		q.SortOrder = Asc
		return lo.Map(ProgressSchema.Run(items, q).Items, func(r model.ProgressReport, _ int) int64 { return r.ID })
	}

	assert.Equal(t, []int64{1, 2}, ids(Query[model.ProgressReport]{Search: "login"}))
	assert.Equal(t, []int64{1}, ids(Query[model.ProgressReport]{
		Filters: []Filter[model.ProgressReport]{ProgressSchema.Contains("reporter", "Wang")},
	}))
	assert.Equal(t, []int64{2}, ids(Query[model.ProgressReport]{
		Filters: []Filter[model.ProgressReport]{ProgressSchema.DateRange("date", "2025-05-02", "2025-05-19")},
	}))
	assert.Equal(t, []int64{2, 3}, ids(Query[model.ProgressReport]{
		Filters: []Filter[model.ProgressReport]{ProgressSchema.DateRange("date", "2025-05-10", "")},
	}))
	assert.Equal(t, []int64{1}, ids(Query[model.ProgressReport]{
		Filters: []Filter[model.ProgressReport]{ProgressSchema.Equals("needHelp", string(model.NeedHelpYes))},
	}))
}

func TestProjectSchema_DateSortPutsMissingFirst(t *testing.T) {
	items := []model.Project{
		{ID: 1, EndDate: "2025-07-01"},
		{ID: 2},
		{ID: 3, EndDate: "2025-06-01"},
	}
	res := ProjectSchema.Run(items, Query[model.Project]{SortBy: "endDate"})
	ids := lo.Map(res.Items, func(p model.Project, _ int) int64 { return p.ID })
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, Asc, ParseOrder("ASC", Desc))
	assert.Equal(t, Desc, ParseOrder("", Desc))
	assert.Equal(t, Asc, ParseOrder("sideways", Asc))
}
