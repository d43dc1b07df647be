package view

import (
	"context"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
)

// recentCount is how many projects the dashboard lists.
const recentCount = 2

// Summary is the dashboard's numbers for the current user.
type Summary struct {
	ActiveProjects int
	ActiveTasks    int
	ActiveSprints  int
	// Recent are the last projects in server order.
	Recent  []model.Project
	Loading bool
	Err     error
}

// Summarize counts in-progress items and picks the most recent projects.
func Summarize(projects []model.Project, tasks []model.Task, sprints []model.Sprint) Summary {
	s := Summary{
		ActiveProjects: len(FilterStatus(projects, string(model.StatusInProgress), func(p model.Project) model.Status { return p.Status })),
		ActiveTasks:    len(FilterStatus(tasks, string(model.StatusInProgress), func(t model.Task) model.Status { return t.Status })),
		ActiveSprints:  len(FilterStatus(sprints, string(model.SprintInProgress), func(s model.Sprint) model.SprintStatus { return s.Status })),
	}
	start := len(projects) - recentCount
	if start < 0 {
		start = 0
	}
	s.Recent = append([]model.Project{}, projects[start:]...)
	return s
}

// Dashboard shows the current user's projects, tasks and sprints.
type Dashboard struct {
	data     *fetch.Collections
	projects *fetch.View[[]model.Project, []model.Project]
	tasks    *fetch.View[[]model.Task, []model.Task]
	sprints  *fetch.View[[]model.Sprint, []model.Sprint]
}

// NewDashboard binds the per-user views to the identity at creation.
func NewDashboard(data *fetch.Collections, who Identity) *Dashboard {
	id := who.UserID()
	return &Dashboard{
		data:     data,
		projects: data.UserProjects(id),
		tasks:    data.UserTasks(id),
		sprints:  data.UserSprints(id),
	}
}

// Load fetches all collections concurrently.
func (d *Dashboard) Load(ctx context.Context) error {
	return d.data.LoadAll(ctx)
}

func (d *Dashboard) Summary() Summary {
	ps, ts, ss := d.projects.State(), d.tasks.State(), d.sprints.State()
	s := Summarize(ps.Data, ts.Data, ss.Data)
	s.Loading = ps.Loading || ts.Loading || ss.Loading
	for _, err := range []error{ps.Err, ts.Err, ss.Err} {
		if err != nil {
			s.Err = err
			break
		}
	}
	return s
}
