package model

import "strings"

// SprintStatus is the lifecycle of a sprint.
type SprintStatus string

const (
	SprintPlanning   SprintStatus = "planning"
	SprintInProgress SprintStatus = "in_progress"
	SprintEnded      SprintStatus = "ended"
)

// Valid reports whether s is a known sprint status.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintPlanning, SprintInProgress, SprintEnded:
		return true
	}
	return false
}

// ParseSprintStatus accepts "in progress", "in-progress" and "in_progress".
func ParseSprintStatus(s string) (SprintStatus, error) {
	norm := SprintStatus(strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))))
	if !norm.Valid() {
		return "", invalid("status", "status must be one of: planning, in_progress, ended")
	}
	return norm, nil
}

// Sprint belongs to exactly one project.
type Sprint struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	StartDate   Date         `json:"startDate"`
	EndDate     Date         `json:"endDate"`
	Status      SprintStatus `json:"status"`
	ProjectID   int64        `json:"projectId"`
}

// SprintRequest is the body of POST /sprints and PUT /sprints/:id.
type SprintRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	StartDate   Date         `json:"startDate"`
	EndDate     Date         `json:"endDate"`
	Status      SprintStatus `json:"status"`
	ProjectID   int64        `json:"projectId"`
}

// Validate rejects a sprint with no project before any request is made.
func (r SprintRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", "sprint name is required")
	}
	if r.ProjectID == 0 {
		return invalid("projectId", "project is required")
	}
	if !r.StartDate.IsSet() {
		return invalid("startDate", "start date is required")
	}
	if !r.EndDate.IsSet() {
		return invalid("endDate", "end date is required")
	}
	if r.EndDate.Before(r.StartDate.Time) {
		return invalid("endDate", "end date must not be before start date")
	}
	if r.Status != "" && !r.Status.Valid() {
		return invalid("status", "invalid sprint status")
	}
	return nil
}

// Request converts a sprint back into an update body.
func (s Sprint) Request() SprintRequest {
	return SprintRequest{
		Name:        s.Name,
		Description: s.Description,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Status:      s.Status,
		ProjectID:   s.ProjectID,
	}
}
