package view

import (
	"context"
	"time"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
)

type SprintAPI interface {
	CreateSprint(ctx context.Context, req model.SprintRequest) (*model.Sprint, error)
	UpdateSprint(ctx context.Context, id int64, req model.SprintRequest) (*model.Sprint, error)
	DeleteSprint(ctx context.Context, id int64) error
}

type SprintCard struct {
	Sprint   model.Sprint
	Status   string
	Project  string
	Progress int
	Tasks    int
	DaysLeft int
}

type SprintsPage struct {
	api    SprintAPI
	data   *fetch.Collections
	who    Identity
	notify Notifier
	now    func() time.Time
}

func NewSprintsPage(api SprintAPI, data *fetch.Collections, who Identity, n Notifier) *SprintsPage {
	return &SprintsPage{api: api, data: data, who: who, notify: n, now: time.Now}
}

func (p *SprintsPage) Load(ctx context.Context) error {
	return p.data.LoadAll(ctx)
}

func (p *SprintsPage) State() fetch.State[[]model.Sprint] {
	return p.data.Sprints.State()
}

// Cards searches name, project name and description. projectID > 0 keeps
// one project's sprints.
func (p *SprintsPage) Cards(f Filter, projectID int64) []SprintCard {
	sprints := p.data.Sprints.State().Data
	projects := p.data.Projects.State().Data
	if f.Mine {
		sprints = fetch.UserSprints(sprints, projects, p.who.UserID())
	}
	if projectID > 0 {
		sprints = fetch.OwnedBy(sprints, &projectID, func(s model.Sprint) int64 { return s.ProjectID })
	}
	sprints = Search(sprints, f.Search,
		func(s model.Sprint) string { return s.Name },
		func(s model.Sprint) string { return ProjectName(projects, s.ProjectID) },
		func(s model.Sprint) string { return s.Description })
	sprints = FilterStatus(sprints, f.Status, func(s model.Sprint) model.SprintStatus { return s.Status })

	tasks := p.data.Tasks.State().Data
	now := p.now()
	cards := make([]SprintCard, 0, len(sprints))
	for _, s := range sprints {
		own := TasksInSprint(tasks, s.ID)
		card := SprintCard{
			Sprint:   s,
			Status:   StatusLabel(string(s.Status)),
			Project:  ProjectName(projects, s.ProjectID),
			Progress: CompletionPercent(own),
			Tasks:    len(own),
		}
		if s.EndDate.IsSet() {
			card.DaysLeft = DaysRemaining(s.EndDate, now)
		}
		cards = append(cards, card)
	}
	return cards
}

func (p *SprintsPage) Create(ctx context.Context, req model.SprintRequest) error {
	if req.Status == "" {
		req.Status = model.SprintPlanning
	}
	return mutate(p.notify, "create sprint", "Sprint created", req.Validate,
		func() error { _, err := p.api.CreateSprint(ctx, req); return err },
		func() error { return p.data.Sprints.Refetch(ctx) })
}

func (p *SprintsPage) Update(ctx context.Context, id int64, req model.SprintRequest) error {
	return mutate(p.notify, "update sprint", "Sprint updated", req.Validate,
		func() error { _, err := p.api.UpdateSprint(ctx, id, req); return err },
		func() error { return p.data.Sprints.Refetch(ctx) })
}

func (p *SprintsPage) Delete(ctx context.Context, id int64) error {
	return mutate(p.notify, "delete sprint", "Sprint deleted", nil,
		func() error { return p.api.DeleteSprint(ctx, id) },
		func() error { return p.data.Sprints.Refetch(ctx) })
}
