package fetch

import (
	"context"

	"github.com/existflow/jera/internal/model"
	"golang.org/x/sync/errgroup"
)

// Source is the part of the API client the collections read from.
type Source interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListSprints(ctx context.Context) ([]model.Sprint, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	TasksByProject(ctx context.Context, projectID int64) ([]model.Task, error)
	TasksBySprint(ctx context.Context, sprintID int64) ([]model.Task, error)
	TasksByAssignee(ctx context.Context, userID int64) ([]model.Task, error)
}

// Collections holds one resource per full server collection.
type Collections struct {
	Projects *Resource[[]model.Project]
	Sprints  *Resource[[]model.Sprint]
	Tasks    *Resource[[]model.Task]
	Users    *Resource[[]model.User]

	src Source
}

func NewCollections(src Source) *Collections {
	return &Collections{
		Projects: New[[]model.Project](src.ListProjects),
		Sprints:  New[[]model.Sprint](src.ListSprints),
		Tasks:    New[[]model.Task](src.ListTasks),
		Users:    New[[]model.User](src.ListUsers),
		src:      src,
	}
}

// LoadAll fetches every collection concurrently and returns the first error.
// A failure does not cancel the other fetches; each resource records its own
// outcome. A fetch overtaken by a newer one is not an error.
func (c *Collections) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return Settled(c.Projects.Refetch(ctx)) })
	g.Go(func() error { return Settled(c.Sprints.Refetch(ctx)) })
	g.Go(func() error { return Settled(c.Tasks.Refetch(ctx)) })
	g.Go(func() error { return Settled(c.Users.Refetch(ctx)) })
	return g.Wait()
}

// Close cancels every fetch in flight.
func (c *Collections) Close() {
	c.Projects.Close()
	c.Sprints.Close()
	c.Tasks.Close()
	c.Users.Close()
}

func (c *Collections) TasksByProject(projectID int64) *Keyed[int64, []model.Task] {
	return NewKeyed(c.src.TasksByProject, projectID)
}

func (c *Collections) TasksBySprint(sprintID int64) *Keyed[int64, []model.Task] {
	return NewKeyed(c.src.TasksBySprint, sprintID)
}

func (c *Collections) TasksByAssignee(userID int64) *Keyed[int64, []model.Task] {
	return NewKeyed(c.src.TasksByAssignee, userID)
}

// UserProjects derives the projects created by userID.
func (c *Collections) UserProjects(userID *int64) *View[[]model.Project, []model.Project] {
	return Derive(c.Projects, func(ps []model.Project) []model.Project {
		return UserProjects(ps, userID)
	})
}

// UserTasks derives the tasks assigned to userID.
func (c *Collections) UserTasks(userID *int64) *View[[]model.Task, []model.Task] {
	return Derive(c.Tasks, func(ts []model.Task) []model.Task {
		return UserTasks(ts, userID)
	})
}

// UserSprints derives the sprints of projects created by userID, using
// whatever projects are currently loaded.
func (c *Collections) UserSprints(userID *int64) *View[[]model.Sprint, []model.Sprint] {
	return Derive(c.Sprints, func(ss []model.Sprint) []model.Sprint {
		return UserSprints(ss, c.Projects.State().Data, userID)
	})
}
