package view

import (
	"context"
	"sort"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
)

type TaskAPI interface {
	CreateTask(ctx context.Context, req model.TaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, id int64, req model.TaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type TaskCard struct {
	Task     model.Task
	Status   string
	Priority string
	Project  string
	Sprint   string
	Assignee string
}

// TaskStats are the counters above the task list.
type TaskStats struct {
	Total      int
	Done       int
	InProgress int
	ToDo       int
}

// TaskFilter adds relation filters to Filter. Zero ids match everything.
type TaskFilter struct {
	Filter
	ProjectID  int64
	SprintID   int64
	AssigneeID int64
}

type TasksPage struct {
	api    TaskAPI
	data   *fetch.Collections
	who    Identity
	notify Notifier
}

func NewTasksPage(api TaskAPI, data *fetch.Collections, who Identity, n Notifier) *TasksPage {
	return &TasksPage{api: api, data: data, who: who, notify: n}
}

func (p *TasksPage) Load(ctx context.Context) error {
	return p.data.LoadAll(ctx)
}

func (p *TasksPage) State() fetch.State[[]model.Task] {
	return p.data.Tasks.State()
}

// Cards searches name, description and project name, then orders by
// priority, high first.
func (p *TasksPage) Cards(f TaskFilter) []TaskCard {
	return BuildTaskCards(p.filter(f),
		p.data.Projects.State().Data,
		p.data.Sprints.State().Data,
		p.data.Users.State().Data)
}

// Stats counts the tasks that pass the relation filters, before search and
// status filtering.
func (p *TasksPage) Stats(f TaskFilter) TaskStats {
	return StatsOf(p.filter(TaskFilter{Filter: Filter{Mine: f.Mine}, ProjectID: f.ProjectID, SprintID: f.SprintID, AssigneeID: f.AssigneeID}))
}

// BuildTaskCards resolves related names and orders by priority, high first.
// tasks is not modified.
func BuildTaskCards(tasks []model.Task, projects []model.Project, sprints []model.Sprint, users []model.User) []TaskCard {
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})

	cards := make([]TaskCard, 0, len(sorted))
	for _, t := range sorted {
		card := TaskCard{
			Task:     t,
			Status:   StatusLabel(string(t.Status)),
			Priority: PriorityLabel(t.Priority),
			Project:  ProjectName(projects, t.ProjectID),
			Assignee: UserName(users, t.AssigneeID),
		}
		if t.SprintID != 0 {
			card.Sprint = SprintName(sprints, t.SprintID)
		}
		cards = append(cards, card)
	}
	return cards
}

// StatsOf counts tasks by status.
func StatsOf(tasks []model.Task) TaskStats {
	counts := CountByStatus(tasks, func(t model.Task) model.Status { return t.Status })
	return TaskStats{
		Total:      len(tasks),
		Done:       counts[model.StatusDone],
		InProgress: counts[model.StatusInProgress],
		ToDo:       counts[model.StatusToDo],
	}
}

func (p *TasksPage) filter(f TaskFilter) []model.Task {
	tasks := p.data.Tasks.State().Data
	if f.Mine {
		tasks = fetch.UserTasks(tasks, p.who.UserID())
	}
	if f.ProjectID > 0 {
		tasks = TasksOf(tasks, f.ProjectID)
	}
	if f.SprintID > 0 {
		tasks = TasksInSprint(tasks, f.SprintID)
	}
	if f.AssigneeID > 0 {
		tasks = fetch.UserTasks(tasks, &f.AssigneeID)
	}
	projects := p.data.Projects.State().Data
	tasks = Search(tasks, f.Search,
		func(t model.Task) string { return t.Name },
		func(t model.Task) string { return t.Description },
		func(t model.Task) string { return ProjectName(projects, t.ProjectID) })
	return FilterStatus(tasks, f.Status, func(t model.Task) model.Status { return t.Status })
}

// Create assigns the task to the current user when no assignee is given.
func (p *TasksPage) Create(ctx context.Context, req model.TaskRequest) error {
	if req.AssigneeID == 0 {
		if id := p.who.UserID(); id != nil {
			req.AssigneeID = *id
		}
	}
	if req.Status == "" {
		req.Status = model.StatusToDo
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	return mutate(p.notify, "create task", "Task created", req.Validate,
		func() error { _, err := p.api.CreateTask(ctx, req); return err },
		func() error { return p.data.Tasks.Refetch(ctx) })
}

func (p *TasksPage) Update(ctx context.Context, id int64, req model.TaskRequest) error {
	return mutate(p.notify, "update task", "Task updated", req.Validate,
		func() error { _, err := p.api.UpdateTask(ctx, id, req); return err },
		func() error { return p.data.Tasks.Refetch(ctx) })
}

// SetStatus moves a task to status, keeping its other fields.
func (p *TasksPage) SetStatus(ctx context.Context, task model.Task, status model.Status) error {
	req := task.Request()
	req.Status = status
	return p.Update(ctx, task.ID, req)
}

// ToggleDone flips a task between done and to do.
func (p *TasksPage) ToggleDone(ctx context.Context, task model.Task) error {
	next := model.StatusDone
	if task.IsDone() {
		next = model.StatusToDo
	}
	return p.SetStatus(ctx, task, next)
}

func (p *TasksPage) Delete(ctx context.Context, id int64) error {
	return mutate(p.notify, "delete task", "Task deleted", nil,
		func() error { return p.api.DeleteTask(ctx, id) },
		func() error { return p.data.Tasks.Refetch(ctx) })
}
