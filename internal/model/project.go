package model

import "time"

type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusOnHold    ProjectStatus = "on-hold"
	StatusCompleted ProjectStatus = "completed"
)

// ProjectStatuses lists every status in display order.
var ProjectStatuses = []ProjectStatus{StatusPlanning, StatusActive, StatusOnHold, StatusCompleted}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          int64         `json:"id"`
	ProjectCode string        `json:"projectCode"`
	Name        string        `json:"name"`
	Owner       string        `json:"owner"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`
	Status      ProjectStatus `json:"status"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProjectInput is the body of a create request.
type ProjectInput struct {
	ProjectCode string `json:"projectCode"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// ProjectPatch is a merge-patch: nil fields keep the stored value.
type ProjectPatch struct {
	ProjectCode *string `json:"projectCode"`
	Name        *string `json:"name"`
	Owner       *string `json:"owner"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// Apply returns a copy of p with the patch merged in. Strings are not trimmed here.
func (patch ProjectPatch) Apply(p Project) ProjectInput {
	in := ProjectInput{
		ProjectCode: p.ProjectCode,
		Name:        p.Name,
		Owner:       p.Owner,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      string(p.Status),
		Description: p.Description,
	}
	if patch.ProjectCode != nil {
		in.ProjectCode = *patch.ProjectCode
	}
	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Owner != nil {
		in.Owner = *patch.Owner
	}
	if patch.StartDate != nil {
		in.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		in.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	return in
}
