package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
)

const ruleWidth = 72

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
}

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func printProjects(w io.Writer, cards []view.ProjectCard) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-5s  %-24s  %-12s  %-16s  %s\n", "ID", "Name", "Status", "Progress", "Deadline")
	rule(w)
	for _, c := range cards {
		fmt.Fprintf(w, "  %-5d  %-24s  %-12s  %s %3d%%  %s\n",
			c.Project.ID, truncate(c.Project.Name, 24), c.Status,
			progressBar(c.Progress, 10), c.Progress, deadline(c.Project.Deadline, c.DaysLeft))
	}
	rule(w)
	fmt.Fprintf(w, "  %d projects\n\n", len(cards))
}

func deadline(d model.Date, daysLeft int) string {
	if !d.IsSet() {
		return "-"
	}
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("%s (%d days late)", view.FormatDate(d), -daysLeft)
	case daysLeft == 0:
		return fmt.Sprintf("%s (today)", view.FormatDate(d))
	default:
		return fmt.Sprintf("%s (%d days)", view.FormatDate(d), daysLeft)
	}
}

func printSprints(w io.Writer, cards []view.SprintCard) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No sprints found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-5s  %-20s  %-18s  %-12s  %-16s  %s\n", "ID", "Name", "Project", "Status", "Progress", "Ends")
	rule(w)
	for _, c := range cards {
		fmt.Fprintf(w, "  %-5d  %-20s  %-18s  %-12s  %s %3d%%  %s\n",
			c.Sprint.ID, truncate(c.Sprint.Name, 20), truncate(c.Project, 18), c.Status,
			progressBar(c.Progress, 10), c.Progress, deadline(c.Sprint.EndDate, c.DaysLeft))
	}
	rule(w)
	fmt.Fprintf(w, "  %d sprints\n\n", len(cards))
}

func printTasks(w io.Writer, cards []view.TaskCard, stats view.TaskStats) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No tasks found. Add one with: jera task new \"Your task\" --project <id>")
		return
	}
	fmt.Fprintln(w)
	for _, c := range cards {
		printTask(w, c)
	}
	rule(w)
	fmt.Fprintf(w, "  %d tasks: %d to do, %d in progress, %d done\n\n", stats.Total, stats.ToDo, stats.InProgress, stats.Done)
}

func printTask(w io.Writer, c view.TaskCard) {
	// Status icon
	icon := "[ ]"
	switch c.Task.Status {
	case model.StatusDone:
		icon = "[x]"
	case model.StatusInProgress:
		icon = "[~]"
	}

	// Priority indicator
	priority := "  " + c.Priority
	if c.Task.Priority == model.PriorityHigh {
		priority = "▲ " + c.Priority
	}

	fmt.Fprintf(w, "  %s  %-5d  %-36s  %-16s  %-12s  %s\n",
		icon, c.Task.ID, truncate(c.Task.Name, 36), truncate(c.Project, 16), truncate(c.Assignee, 12), priority)
}

func printUsers(w io.Writer, users []model.User, me *int64) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-5s  %-22s  %-16s  %s\n", "ID", "Name", "Username", "Email")
	rule(w)
	for _, u := range users {
		marker := "  "
		if me != nil && *me == u.ID {
			marker = "❯ "
		}
		fmt.Fprintf(w, "%s%-5d  %-22s  %-16s  %s\n", marker, u.ID, truncate(u.Name, 22), truncate(u.Username, 16), u.Email)
	}
	rule(w)
	fmt.Fprintf(w, "  %d users\n\n", len(users))
}

func printAdmins(w io.Writer, cards []view.AdminCard) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No administrators found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-5s  %-22s  %-10s  %-8s  %s\n", "ID", "User", "Level", "State", "Permissions")
	rule(w)
	for _, c := range cards {
		fmt.Fprintf(w, "  %-5d  %-22s  %-10s  %-8s  %s\n",
			c.Admin.ID, truncate(c.User, 22), c.Admin.Level, c.State, strings.Join(c.Admin.Permissions, ","))
	}
	rule(w)
	fmt.Fprintln(w)
}
