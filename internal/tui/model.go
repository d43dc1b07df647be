package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/jera/internal/api"
	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/session"
	"github.com/existflow/jera/internal/storage"
	"github.com/existflow/jera/internal/view"
)

// Tab is one page of the dashboard
type Tab int

const (
	TabDashboard Tab = iota
	TabProjects
	TabSprints
	TabTasks
	TabUsers
	tabCount
)

var tabNames = [tabCount]string{"Dashboard", "Projects", "Sprints", "Tasks", "Users"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeAddTask
	ModeAddProject
	ModeConfirm
	ModeHelp
)

// Deps are the services the TUI drives.
type Deps struct {
	Client   *api.Client
	Session  *session.Store
	Data     *fetch.Collections
	Settings storage.KV
	// Confirm asks before deleting.
	Confirm bool
}

// loginForm is shown while no one is signed in.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
}

// pendingAction waits for a yes in ModeConfirm.
type pendingAction struct {
	label string
	run   func() tea.Cmd
}

// Model is the main TUI model
type Model struct {
	deps     Deps
	projects *view.ProjectsPage
	sprints  *view.SprintsPage
	tasks    *view.TasksPage
	users    *view.UsersPage
	dash     *view.Dashboard

	// events carries store changes and mutation results into Update.
	events      chan tea.Msg
	unsubscribe []func()

	// UI state
	width  int
	height int
	tab    Tab
	mode   Mode
	cursor int

	input textinput.Model
	login loginForm

	// Filters of the current tab
	search string
	status string
	mine   bool

	pending *pendingAction

	message string
	failed  bool
}

// NewModel creates a new TUI model
func NewModel(d Deps) Model {
	logger.Info("Initializing TUI model")

	events := make(chan tea.Msg, 64)
	n := notifier{events: events}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		deps:     d,
		projects: view.NewProjectsPage(d.Client, d.Data, d.Session, n),
		sprints:  view.NewSprintsPage(d.Client, d.Data, d.Session, n),
		tasks:    view.NewTasksPage(d.Client, d.Data, d.Session, n),
		users:    view.NewUsersPage(d.Client, d.Data, d.Session, n),
		dash:     view.NewDashboard(d.Data, d.Session),
		events:   events,
		input:    ti,
		login:    newLoginForm(),
	}

	changed := func() { post(events, dataMsg{}) }
	m.unsubscribe = []func(){
		d.Session.Subscribe(func(session.State) { post(events, sessionMsg{}) }),
		d.Data.Projects.Subscribe(func(fetch.State[[]model.Project]) { changed() }),
		d.Data.Sprints.Subscribe(func(fetch.State[[]model.Sprint]) { changed() }),
		d.Data.Tasks.Subscribe(func(fetch.State[[]model.Task]) { changed() }),
		d.Data.Users.Subscribe(func(fetch.State[[]model.User]) { changed() }),
	}
	return m
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 30
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Width = 30
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginForm{username: user, password: pass}
}

// Close drops the store subscriptions.
func (m Model) Close() {
	for _, stop := range m.unsubscribe {
		stop()
	}
}

// post delivers msg without blocking a store callback. A full queue drops
// it; the next change redraws anyway.
func post(events chan tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	default:
		logger.Debug("TUI event dropped", logger.F("type", msgName(msg)))
	}
}

func (m Model) filter() view.Filter {
	return view.Filter{Search: m.search, Status: m.status, Mine: m.mine}
}

func (m Model) projectCards() []view.ProjectCard {
	return m.projects.Cards(m.filter())
}

func (m Model) sprintCards() []view.SprintCard {
	return m.sprints.Cards(m.filter(), 0)
}

func (m Model) taskFilter() view.TaskFilter {
	return view.TaskFilter{Filter: m.filter()}
}

func (m Model) taskCards() []view.TaskCard {
	return m.tasks.Cards(m.taskFilter())
}

func (m Model) userList() []model.User {
	return m.users.List(m.search)
}

// rowCount is the number of selectable rows on the current tab.
func (m Model) rowCount() int {
	switch m.tab {
	case TabDashboard:
		return len(m.dash.Summary().Recent)
	case TabProjects:
		return len(m.projectCards())
	case TabSprints:
		return len(m.sprintCards())
	case TabTasks:
		return len(m.taskCards())
	case TabUsers:
		return len(m.userList())
	}
	return 0
}

func (m Model) selectedProject() *model.Project {
	var cards []view.ProjectCard
	switch m.tab {
	case TabProjects:
		cards = m.projectCards()
	case TabDashboard:
		for _, p := range m.dash.Summary().Recent {
			cards = append(cards, view.ProjectCard{Project: p})
		}
	}
	if m.cursor < len(cards) {
		p := cards[m.cursor].Project
		return &p
	}
	return nil
}

func (m Model) selectedSprint() *model.Sprint {
	if cards := m.sprintCards(); m.cursor < len(cards) {
		s := cards[m.cursor].Sprint
		return &s
	}
	return nil
}

func (m Model) selectedTask() *model.Task {
	if cards := m.taskCards(); m.cursor < len(cards) {
		t := cards[m.cursor].Task
		return &t
	}
	return nil
}

func (m Model) selectedUser() *model.User {
	if users := m.userList(); m.cursor < len(users) {
		u := users[m.cursor]
		return &u
	}
	return nil
}
