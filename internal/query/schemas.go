package query

import "progresstracker/internal/model"

var ProjectSchema = Schema[model.Project]{
	Fields: map[string]Field[model.Project]{
		"id":          {Kind: Number, Get: func(p model.Project) any { return p.ID }},
		"projectCode": {Kind: String, Get: func(p model.Project) any { return p.ProjectCode }},
		"name":        {Kind: String, Get: func(p model.Project) any { return p.Name }},
		"owner":       {Kind: String, Get: func(p model.Project) any { return p.Owner }},
		"startDate":   {Kind: Date, Get: func(p model.Project) any { return p.StartDate }},
		"endDate":     {Kind: Date, Get: func(p model.Project) any { return p.EndDate }},
		"status":      {Kind: String, Get: func(p model.Project) any { return string(p.Status) }},
		"description": {Kind: String, Get: func(p model.Project) any { return p.Description }},
		"createdAt":   {Kind: Date, Get: func(p model.Project) any { return p.CreatedAt }},
		"updatedAt":   {Kind: Date, Get: func(p model.Project) any { return p.UpdatedAt }},
	},
	SearchFields: []string{"name", "projectCode", "description", "owner"},
	// projects keep file order unless a sort is requested
	DefaultOrder: Asc,
}

var ProgressSchema = Schema[model.ProgressReport]{
	Fields: map[string]Field[model.ProgressReport]{
		"id":          {Kind: Number, Get: func(r model.ProgressReport) any { return r.ID }},
		"reporter":    {Kind: String, Get: func(r model.ProgressReport) any { return r.Reporter }},
		"date":        {Kind: Date, Get: func(r model.ProgressReport) any { return r.Date }},
		"projectCode": {Kind: String, Get: func(r model.ProgressReport) any { return r.ProjectCode }},
		"workHours":   {Kind: Number, Get: func(r model.ProgressReport) any { return r.WorkHours }},
		"content":     {Kind: String, Get: func(r model.ProgressReport) any { return r.Content }},
		"blocker":     {Kind: String, Get: func(r model.ProgressReport) any { return r.Blocker }},
		"plan":        {Kind: String, Get: func(r model.ProgressReport) any { return r.Plan }},
		"needHelp":    {Kind: String, Get: func(r model.ProgressReport) any { return string(r.NeedHelp) }},
		"createdAt":   {Kind: Date, Get: func(r model.ProgressReport) any { return r.CreatedAt }},
		"updatedAt":   {Kind: Date, Get: func(r model.ProgressReport) any { return r.UpdatedAt }},
	},
	SearchFields:  []string{"content", "blocker", "plan", "reporter"},
	DefaultSortBy: "date",
	DefaultOrder:  Desc,
}
