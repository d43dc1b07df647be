package view

import (
	"context"
	"time"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
)

// Filter narrows a page's list.
type Filter struct {
	Search string
	Status string
	// Mine keeps only the current user's items.
	Mine bool
}

// ProjectAPI is the part of the API client the projects page calls.
type ProjectAPI interface {
	CreateProject(ctx context.Context, req model.ProjectRequest) (*model.Project, error)
	UpdateProject(ctx context.Context, id int64, req model.ProjectRequest) (*model.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// ProjectCard is one project as listed.
type ProjectCard struct {
	Project  model.Project
	Status   string
	Progress int
	Tasks    int
	DaysLeft int
	Creator  string
}

type ProjectsPage struct {
	api    ProjectAPI
	data   *fetch.Collections
	who    Identity
	notify Notifier
	now    func() time.Time
}

func NewProjectsPage(api ProjectAPI, data *fetch.Collections, who Identity, n Notifier) *ProjectsPage {
	return &ProjectsPage{api: api, data: data, who: who, notify: n, now: time.Now}
}

// Load fetches projects with the tasks and users the cards need.
func (p *ProjectsPage) Load(ctx context.Context) error {
	return p.data.LoadAll(ctx)
}

func (p *ProjectsPage) State() fetch.State[[]model.Project] {
	return p.data.Projects.State()
}

// Cards applies f and derives progress from the loaded tasks.
func (p *ProjectsPage) Cards(f Filter) []ProjectCard {
	projects := p.data.Projects.State().Data
	if f.Mine {
		projects = fetch.UserProjects(projects, p.who.UserID())
	}
	projects = Search(projects, f.Search,
		func(x model.Project) string { return x.Name },
		func(x model.Project) string { return x.Description })
	projects = FilterStatus(projects, f.Status, func(x model.Project) model.Status { return x.Status })

	tasks := p.data.Tasks.State().Data
	users := p.data.Users.State().Data
	now := p.now()
	cards := make([]ProjectCard, 0, len(projects))
	for _, pr := range projects {
		own := TasksOf(tasks, pr.ID)
		card := ProjectCard{
			Project:  pr,
			Status:   StatusLabel(string(pr.Status)),
			Progress: CompletionPercent(own),
			Tasks:    len(own),
			Creator:  UserName(users, pr.CreatorID),
		}
		if pr.Deadline.IsSet() {
			card.DaysLeft = DaysRemaining(pr.Deadline, now)
		}
		cards = append(cards, card)
	}
	return cards
}

// Create fills in the current user as creator when none is given.
func (p *ProjectsPage) Create(ctx context.Context, req model.ProjectRequest) error {
	if req.CreatorID == 0 {
		if id := p.who.UserID(); id != nil {
			req.CreatorID = *id
		}
	}
	if req.Status == "" {
		req.Status = model.StatusToDo
	}
	return mutate(p.notify, "create project", "Project created", req.Validate,
		func() error { _, err := p.api.CreateProject(ctx, req); return err },
		func() error { return p.data.Projects.Refetch(ctx) })
}

func (p *ProjectsPage) Update(ctx context.Context, id int64, req model.ProjectRequest) error {
	return mutate(p.notify, "update project", "Project updated", req.Validate,
		func() error { _, err := p.api.UpdateProject(ctx, id, req); return err },
		func() error { return p.data.Projects.Refetch(ctx) })
}

func (p *ProjectsPage) Delete(ctx context.Context, id int64) error {
	return mutate(p.notify, "delete project", "Project deleted", nil,
		func() error { return p.api.DeleteProject(ctx, id) },
		func() error { return p.data.Projects.Refetch(ctx) })
}
