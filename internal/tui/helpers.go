package tui

import (
	"strings"

	"github.com/existflow/jera/internal/model"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// repeat guards strings.Repeat against negative widths.
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

// statusOptions lists the filter values the tab cycles through; "" is all.
func statusOptions(t Tab) []string {
	switch t {
	case TabProjects, TabTasks:
		return []string{"", string(model.StatusToDo), string(model.StatusInProgress), string(model.StatusDone)}
	case TabSprints:
		return []string{"", string(model.SprintPlanning), string(model.SprintInProgress), string(model.SprintEnded)}
	}
	return nil
}

func nextStatusFilter(t Tab, current string) string {
	opts := statusOptions(t)
	if len(opts) == 0 {
		return ""
	}
	for i, o := range opts {
		if o == current {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

// advanceStatus moves a task one step along to do, in progress, done and
// back to to do.
func advanceStatus(s model.Status) model.Status {
	switch s {
	case model.StatusToDo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return model.StatusToDo
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
