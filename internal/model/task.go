package model

import (
	"strings"
	"time"
)

// Priority levels for tasks
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ParsePriority is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", invalid("priority", "priority must be one of: low, medium, high")
	}
	return p, nil
}

// Task belongs to one project, optionally one sprint, and one assignee.
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
	AssigneeID  int64      `json:"assigneeId"`
	SprintID    int64      `json:"sprintId"`
	ProjectID   int64      `json:"projectId"`
}

// IsDone reports whether the task counts toward completion.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// TaskRequest is the body of POST /tasks and PUT /tasks/:id.
type TaskRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	AssigneeID  int64    `json:"assigneeId"`
	SprintID    int64    `json:"sprintId"`
	ProjectID   int64    `json:"projectId"`
}

// Validate checks required fields.
func (r TaskRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", "task name is required")
	}
	if r.ProjectID == 0 {
		return invalid("projectId", "project is required")
	}
	if r.AssigneeID == 0 {
		return invalid("assigneeId", "assignee is required")
	}
	if r.Status != "" && !r.Status.Valid() {
		return invalid("status", "invalid task status")
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return invalid("priority", "invalid task priority")
	}
	return nil
}

// Request converts a task back into an update body.
func (t Task) Request() TaskRequest {
	return TaskRequest{
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssigneeID:  t.AssigneeID,
		SprintID:    t.SprintID,
		ProjectID:   t.ProjectID,
	}
}
