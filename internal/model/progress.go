package model

import "time"

// NeedHelp is the needs-help flag of a progress report.
type NeedHelp string

const (
	NeedHelpYes NeedHelp = "是"
	NeedHelpNo  NeedHelp = "否"
)

type ProgressReport struct {
	ID          int64     `json:"id"`
	Reporter    string    `json:"reporter"`
	Date        string    `json:"date"`
	ProjectCode string    `json:"projectCode"`
	WorkHours   float64   `json:"workHours"`
	Content     string    `json:"content"`
	Blocker     string    `json:"blocker"`
	NeedHelp    NeedHelp  `json:"needHelp"`
	Plan        string    `json:"plan"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r ProgressReport) NeedsHelp() bool {
	return r.NeedHelp == NeedHelpYes
}

// ProgressInput is the body of a create request.
// WorkHours accepts a JSON number or a numeric string.
type ProgressInput struct {
	Reporter    string `json:"reporter"`
	Date        string `json:"date"`
	ProjectCode string `json:"projectCode"`
	WorkHours   any    `json:"workHours"`
	Content     string `json:"content"`
	Blocker     string `json:"blocker"`
	NeedHelp    string `json:"needHelp"`
	Plan        string `json:"plan"`
}

// ProgressPatch is a merge-patch: nil fields keep the stored value.
type ProgressPatch struct {
	Reporter    *string `json:"reporter"`
	Date        *string `json:"date"`
	ProjectCode *string `json:"projectCode"`
	WorkHours   any     `json:"workHours"`
	Content     *string `json:"content"`
	Blocker     *string `json:"blocker"`
	NeedHelp    *string `json:"needHelp"`
	Plan        *string `json:"plan"`
}

func (patch ProgressPatch) Apply(r ProgressReport) ProgressInput {
	in := ProgressInput{
		Reporter:    r.Reporter,
		Date:        r.Date,
		ProjectCode: r.ProjectCode,
		WorkHours:   r.WorkHours,
		Content:     r.Content,
		Blocker:     r.Blocker,
		NeedHelp:    string(r.NeedHelp),
		Plan:        r.Plan,
	}
	if patch.Reporter != nil {
		in.Reporter = *patch.Reporter
	}
	if patch.Date != nil {
		in.Date = *patch.Date
	}
	if patch.ProjectCode != nil {
		in.ProjectCode = *patch.ProjectCode
	}
	if patch.WorkHours != nil {
		in.WorkHours = patch.WorkHours
	}
	if patch.Content != nil {
		in.Content = *patch.Content
	}
	if patch.Blocker != nil {
		in.Blocker = *patch.Blocker
	}
	if patch.NeedHelp != nil {
		in.NeedHelp = *patch.NeedHelp
	}
	if patch.Plan != nil {
		in.Plan = *patch.Plan
	}
	return in
}

// NeedHelpReport is a report enriched with its project's name and owner.
type NeedHelpReport struct {
	ProgressReport
	ProjectName  string  `json:"projectName"`
	ProjectOwner *string `json:"projectOwner"`
}
