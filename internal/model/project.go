package model

import "strings"

// Status values shared by projects and tasks, as the API spells them.
type Status string

const (
	StatusToDo       Status = "to do"
	StatusInProgress Status = "in progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is a known project/task status.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus accepts the wire form and the dash/underscore spellings
// ("to-do", "in_progress") people type on the command line.
func ParseStatus(s string) (Status, error) {
	norm := Status(strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))))
	if !norm.Valid() {
		return "", invalid("status", "status must be one of: to do, in progress, done")
	}
	return norm, nil
}

// Project is a body of work owned (by reference) by its creator.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	StartDate   Date   `json:"startDate"`
	Deadline    Date   `json:"deadline"`
	CreatorID   int64  `json:"creatorId"`
}

// ProjectRequest is the body of POST /projects and PUT /projects/:id.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	StartDate   Date   `json:"startDate"`
	Deadline    Date   `json:"deadline"`
	CreatorID   int64  `json:"creatorId"`
}

// Validate checks required fields.
func (r ProjectRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", "project name is required")
	}
	if r.Status != "" && !r.Status.Valid() {
		return invalid("status", "invalid project status")
	}
	if r.StartDate.IsSet() && r.Deadline.IsSet() && r.Deadline.Before(r.StartDate.Time) {
		return invalid("deadline", "deadline must not be before start date")
	}
	return nil
}

// Request converts a project back into an update body.
func (p Project) Request() ProjectRequest {
	return ProjectRequest{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		Deadline:    p.Deadline,
		CreatorID:   p.CreatorID,
	}
}
