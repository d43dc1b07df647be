// Package view holds the presentation logic shared by the CLI and the TUI:
// search and status filters, simple aggregates, display labels, and the page
// controllers that mutate resources and resynchronize afterwards.
package view

import (
	"math"
	"strings"
	"time"

	"github.com/existflow/jera/internal/model"
)

// Placeholders for foreign keys that point at nothing loaded.
const (
	UnknownProject = "Unknown project"
	UnknownSprint  = "Unknown sprint"
	UnknownUser    = "Unknown user"
)

// Search keeps the items where any field contains term, ignoring case.
// An empty term returns items unchanged.
func Search[T any](items []T, term string, fields ...func(T) string) []T {
	term = strings.ToLower(term)
	if term == "" {
		return items
	}
	out := []T{}
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// FilterStatus keeps the items whose status equals status. "" and "all"
// keep everything.
func FilterStatus[T any, S ~string](items []T, status string, key func(T) S) []T {
	if status == "" || status == "all" {
		return items
	}
	out := []T{}
	for _, item := range items {
		if string(key(item)) == status {
			out = append(out, item)
		}
	}
	return out
}

// CountByStatus tallies items per status.
func CountByStatus[T any, S ~string](items []T, key func(T) S) map[S]int {
	counts := make(map[S]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// CompletionPercent is round(100 * done / total), or 0 for no tasks.
func CompletionPercent(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.IsDone() {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// DaysRemaining counts whole days until due, rounding up. Past dates are
// negative.
func DaysRemaining(due model.Date, now time.Time) int {
	return int(math.Ceil(float64(due.Sub(now)) / float64(24*time.Hour)))
}

// StatusLabel maps a wire status to its display text.
func StatusLabel(status string) string {
	switch status {
	case string(model.StatusToDo):
		return "To do"
	case string(model.StatusInProgress), string(model.SprintInProgress):
		return "In progress"
	case string(model.StatusDone):
		return "Done"
	case string(model.SprintPlanning):
		return "Planning"
	case string(model.SprintEnded):
		return "Ended"
	default:
		return status
	}
}

// PriorityLabel capitalizes a priority.
func PriorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "High"
	case model.PriorityMedium:
		return "Medium"
	case model.PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// FormatDate renders a date for lists, or "-" when unset.
func FormatDate(d model.Date) string {
	if !d.IsSet() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

// LookupName finds the item with id and returns its name, or placeholder.
func LookupName[T any](items []T, id int64, idOf func(T) int64, name func(T) string, placeholder string) string {
	for _, item := range items {
		if idOf(item) == id {
			return name(item)
		}
	}
	return placeholder
}

func ProjectName(projects []model.Project, id int64) string {
	return LookupName(projects, id,
		func(p model.Project) int64 { return p.ID },
		func(p model.Project) string { return p.Name },
		UnknownProject)
}

func SprintName(sprints []model.Sprint, id int64) string {
	return LookupName(sprints, id,
		func(s model.Sprint) int64 { return s.ID },
		func(s model.Sprint) string { return s.Name },
		UnknownSprint)
}

func UserName(users []model.User, id int64) string {
	return LookupName(users, id,
		func(u model.User) int64 { return u.ID },
		func(u model.User) string { return u.Name },
		UnknownUser)
}

// TasksOf returns the tasks that belong to a project.
func TasksOf(tasks []model.Task, projectID int64) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// TasksInSprint returns the tasks scheduled in a sprint.
func TasksInSprint(tasks []model.Task, sprintID int64) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.SprintID == sprintID {
			out = append(out, t)
		}
	}
	return out
}
