package view

import (
	"testing"
	"time"

	"github.com/existflow/jera/internal/model"
)

func tasksWithStatuses(statuses ...model.Status) []model.Task {
	tasks := make([]model.Task, len(statuses))
	for i, s := range statuses {
		tasks[i] = model.Task{ID: int64(i + 1), Status: s}
	}
	return tasks
}

func TestCompletionPercent(t *testing.T) {
	cases := []struct {
		name  string
		tasks []model.Task
		want  int
	}{
		{"empty", nil, 0},
		{"three of four", tasksWithStatuses(model.StatusDone, model.StatusDone, model.StatusDone, model.StatusToDo), 75},
		{"one of three", tasksWithStatuses(model.StatusDone, model.StatusInProgress, model.StatusToDo), 33},
		{"two of three", tasksWithStatuses(model.StatusDone, model.StatusDone, model.StatusToDo), 67},
		{"half rounds up", tasksWithStatuses(model.StatusDone, model.StatusToDo), 50},
		{"all done", tasksWithStatuses(model.StatusDone), 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompletionPercent(tc.tasks); got != tc.want {
				t.Fatalf("CompletionPercent = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	users := []model.User{
		{ID: 1, Name: "Ana Lima", Username: "ana", Email: "ana@example.com"},
		{ID: 2, Name: "Bob", Username: "bobby", Email: "bob@corp.test"},
		{ID: 3, Name: "Carla", Username: "carla", Email: "c@EXAMPLE.com"},
	}
	fields := []func(model.User) string{
		func(u model.User) string { return u.Name },
		func(u model.User) string { return u.Email },
	}

	got := Search(users, "Example", fields...)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("Search = %+v", got)
	}

	// Username is not searched.
	if got := Search(users, "bobby", fields...); len(got) != 0 {
		t.Fatalf("unsearched field matched: %+v", got)
	}

	if got := Search(users, "", fields...); len(got) != len(users) || &got[0] != &users[0] {
		t.Fatalf("empty term changed the input")
	}

	// Blank terms are matched literally, not treated as empty.
	if got := Search(users, " ", fields...); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("Search(\" \") = %+v", got)
	}
	if got := Search(users, "   ", fields...); len(got) != 0 {
		t.Fatalf("Search(\"   \") = %+v", got)
	}
}

func TestFilterStatus(t *testing.T) {
	tasks := tasksWithStatuses(model.StatusDone, model.StatusToDo, model.StatusDone)
	key := func(t model.Task) model.Status { return t.Status }

	if got := FilterStatus(tasks, "done", key); len(got) != 2 {
		t.Fatalf("done = %d", len(got))
	}
	for _, all := range []string{"", "all"} {
		if got := FilterStatus(tasks, all, key); len(got) != 3 {
			t.Fatalf("%q = %d", all, len(got))
		}
	}
	counts := CountByStatus(tasks, key)
	if counts[model.StatusDone] != 2 || counts[model.StatusToDo] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		due  string
		want int
	}{
		{"2024-01-11", 1},
		{"2024-01-20", 10},
		{"2024-01-10", 0},
		{"2024-01-05", -5},
	}
	for _, tc := range cases {
		due, err := model.ParseDate(tc.due)
		if err != nil {
			t.Fatal(err)
		}
		if got := DaysRemaining(due, now); got != tc.want {
			t.Fatalf("DaysRemaining(%s) = %d, want %d", tc.due, got, tc.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[string]string{
		"in progress": "In progress",
		"in_progress": "In progress",
		"to do":       "To do",
		"done":        "Done",
		"planning":    "Planning",
		"ended":       "Ended",
		"paused":      "paused",
	}
	for in, want := range cases {
		if got := StatusLabel(in); got != want {
			t.Fatalf("StatusLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupPlaceholders(t *testing.T) {
	projects := []model.Project{{ID: 1, Name: "CRM"}}
	if got := ProjectName(projects, 1); got != "CRM" {
		t.Fatalf("ProjectName = %q", got)
	}
	if got := ProjectName(projects, 2); got != UnknownProject {
		t.Fatalf("dangling project = %q", got)
	}
	if got := SprintName(nil, 3); got != UnknownSprint {
		t.Fatalf("dangling sprint = %q", got)
	}
	if got := UserName(nil, 4); got != UnknownUser {
		t.Fatalf("dangling user = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d, _ := model.ParseDate("2024-03-05")
	if got := FormatDate(d); got != "Mar 5, 2024" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(model.Date{}); got != "-" {
		t.Fatalf("unset date = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Status: model.StatusInProgress},
		{ID: 2, Status: model.StatusDone},
		{ID: 3, Status: model.StatusInProgress},
	}
	tasks := tasksWithStatuses(model.StatusInProgress, model.StatusDone)
	sprints := []model.Sprint{{ID: 1, Status: model.SprintInProgress}, {ID: 2, Status: model.SprintPlanning}}

	s := Summarize(projects, tasks, sprints)
	if s.ActiveProjects != 2 || s.ActiveTasks != 1 || s.ActiveSprints != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if len(s.Recent) != 2 || s.Recent[0].ID != 2 || s.Recent[1].ID != 3 {
		t.Fatalf("recent = %+v", s.Recent)
	}

	if empty := Summarize(nil, nil, nil); len(empty.Recent) != 0 || empty.ActiveProjects != 0 {
		t.Fatalf("empty summary = %+v", empty)
	}
}
