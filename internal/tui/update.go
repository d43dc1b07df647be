package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/jera/internal/api"
	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/storage"
	"github.com/existflow/jera/internal/view"
)

// Init starts listening for events and loads data when signed in
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent(), textinput.Blink}
	if m.deps.Session.State().Authenticated {
		cmds = append(cmds, m.loadCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataMsg, sessionMsg:
		m.cursor = clamp(m.cursor, m.rowCount())
		return m, m.waitForEvent()

	case noteMsg:
		m.message = msg.text
		m.failed = msg.failed
		return m, m.waitForEvent()

	case loadedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Failed to load: %v", msg.err)
			m.failed = true
		}
		return m, nil

	case loginMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.err = loginError(msg.err)
			logger.Warn("TUI login failed", logger.F("error", msg.err))
			return m, nil
		}
		m.login = newLoginForm()
		m.dash = view.NewDashboard(m.deps.Data, m.deps.Session)
		m.tab = TabDashboard
		m.cursor = 0
		m.message = "Welcome back"
		m.failed = false
		return m, m.loadCmd()

	case logoutMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Logout error: %v", msg.err)
			m.failed = true
			return m, nil
		}
		m.resetFilters()
		m.tab = TabDashboard
		m.mode = ModeNormal
		m.message = "Logged out successfully"
		m.failed = false
		return m, textinput.Blink

	case doneMsg:
		m.cursor = clamp(m.cursor, m.rowCount())
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceOut) {
			return m, tea.Quit
		}
		st := m.deps.Session.State()
		if st.Loading {
			return m, nil
		}
		if !st.Authenticated {
			return m.updateLogin(msg)
		}

		switch m.mode {
		case ModeAddTask, ModeAddProject:
			return m.updateInput(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func loginError(err error) string {
	switch {
	case errors.Is(err, api.ErrLoginUserMismatch):
		return "Signed in, but the server does not list this user"
	case view.IsValidation(err):
		return err.Error()
	case api.IsUnauthorized(err):
		return "Invalid username or password"
	}
	return err.Error()
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Escape):
		return m, tea.Quit

	case key.Matches(msg, keys.Submit):
		if m.login.focus == 0 {
			m.login.focus = 1
			m.login.username.Blur()
			m.login.password.Focus()
			return m, textinput.Blink
		}
		creds := model.LoginCredentials{
			Username: strings.TrimSpace(m.login.username.Value()),
			Password: m.login.password.Value(),
		}
		if err := creds.Validate(); err != nil {
			m.login.err = err.Error()
			return m, nil
		}
		m.login.busy = true
		m.login.err = ""
		return m, m.loginCmd(creds)

	case key.Matches(msg, keys.Focus):
		m.login.focus = 1 - m.login.focus
		if m.login.focus == 0 {
			m.login.password.Blur()
			m.login.username.Focus()
		} else {
			m.login.username.Blur()
			m.login.password.Focus()
		}
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.NextTab):
		m.switchTab((m.tab + 1) % tabCount)

	case key.Matches(msg, keys.PrevTab):
		m.switchTab((m.tab + tabCount - 1) % tabCount)

	case len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "5":
		m.switchTab(Tab(msg.String()[0] - '1'))

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Top):
		m.cursor = 0

	case key.Matches(msg, keys.Bottom):
		m.cursor = clamp(m.rowCount()-1, m.rowCount())

	case key.Matches(msg, keys.Search):
		if m.tab == TabDashboard {
			return m, nil
		}
		return m.startInput(ModeSearch, m.search, "search...")

	case key.Matches(msg, keys.Filter):
		m.status = nextStatusFilter(m.tab, m.status)
		m.cursor = 0

	case key.Matches(msg, keys.Mine):
		if m.tab == TabProjects || m.tab == TabSprints || m.tab == TabTasks {
			m.mine = !m.mine
			m.cursor = 0
		}

	case key.Matches(msg, keys.Escape):
		if m.search != "" || m.status != "" || m.mine {
			m.resetFilters()
			m.message = "Filter cleared"
			m.failed = false
		}

	case key.Matches(msg, keys.Refresh):
		m.message = "Refreshing..."
		m.failed = false
		return m, m.loadCmd()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		if task := m.selectedTask(); task != nil && m.tab == TabTasks {
			t := *task
			return m, mutation("toggle", func(ctx context.Context) error { return m.tasks.ToggleDone(ctx, t) })
		}

	case key.Matches(msg, keys.Advance):
		if task := m.selectedTask(); task != nil && m.tab == TabTasks {
			t := *task
			next := advanceStatus(t.Status)
			return m, mutation("status", func(ctx context.Context) error { return m.tasks.SetStatus(ctx, t, next) })
		}

	case key.Matches(msg, keys.AddTask):
		return m.startInput(ModeAddTask, "", "Enter task...")

	case key.Matches(msg, keys.Project):
		return m.startInput(ModeAddProject, "", "Enter project name...")

	case key.Matches(msg, keys.Context):
		if p := m.selectedProject(); p != nil {
			if err := storage.SetCurrentProject(context.Background(), m.deps.Settings, p.ID); err != nil {
				m.message = fmt.Sprintf("Failed to set current project: %v", err)
				m.failed = true
			} else {
				m.message = fmt.Sprintf("Current project: %s", p.Name)
				m.failed = false
			}
		}

	case key.Matches(msg, keys.Delete):
		return m.handleDelete()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Logout):
		return m, m.logoutCmd()
	}

	return m, nil
}

func (m *Model) switchTab(t Tab) {
	if t == m.tab {
		return
	}
	m.tab = t
	m.cursor = 0
	m.resetFilters()
}

func (m *Model) resetFilters() {
	m.search = ""
	m.status = ""
	m.mine = false
	m.cursor = 0
}

func (m Model) startInput(mode Mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

// handleDelete picks the selected row of the tab and asks first when
// confirmation is on.
func (m Model) handleDelete() (tea.Model, tea.Cmd) {
	var action *pendingAction
	switch m.tab {
	case TabProjects:
		if p := m.selectedProject(); p != nil {
			id := p.ID
			action = &pendingAction{label: fmt.Sprintf("project %q", p.Name), run: func() tea.Cmd {
				return mutation("delete project", func(ctx context.Context) error { return m.projects.Delete(ctx, id) })
			}}
		}
	case TabSprints:
		if s := m.selectedSprint(); s != nil {
			id := s.ID
			action = &pendingAction{label: fmt.Sprintf("sprint %q", s.Name), run: func() tea.Cmd {
				return mutation("delete sprint", func(ctx context.Context) error { return m.sprints.Delete(ctx, id) })
			}}
		}
	case TabTasks:
		if t := m.selectedTask(); t != nil {
			id := t.ID
			action = &pendingAction{label: fmt.Sprintf("task %q", t.Name), run: func() tea.Cmd {
				return mutation("delete task", func(ctx context.Context) error { return m.tasks.Delete(ctx, id) })
			}}
		}
	case TabUsers:
		if u := m.selectedUser(); u != nil {
			id := u.ID
			action = &pendingAction{label: fmt.Sprintf("user %q", u.Username), run: func() tea.Cmd {
				return mutation("delete user", func(ctx context.Context) error { return m.users.Delete(ctx, id) })
			}}
		}
	}
	if action == nil {
		return m, nil
	}
	if !m.deps.Confirm {
		return m, action.run()
	}
	m.pending = action
	m.mode = ModeConfirm
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.pending
	m.pending = nil
	m.mode = ModeNormal
	if action == nil || !key.Matches(msg, keys.Confirm) {
		m.message = "Cancelled"
		m.failed = false
		return m, nil
	}
	return m, action.run()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Submit):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		if value == "" {
			return m, nil
		}

		switch mode {
		case ModeAddTask:
			req := model.TaskRequest{Name: value, ProjectID: m.taskProject()}
			return m, mutation("create task", func(ctx context.Context) error { return m.tasks.Create(ctx, req) })
		case ModeAddProject:
			req := model.ProjectRequest{Name: value, StartDate: model.NewDate(time.Now())}
			return m, mutation("create project", func(ctx context.Context) error { return m.projects.Create(ctx, req) })
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// taskProject is the selected project on the projects tab, else the saved
// current project.
func (m Model) taskProject() int64 {
	if m.tab == TabProjects || m.tab == TabDashboard {
		if p := m.selectedProject(); p != nil {
			return p.ID
		}
	}
	return storage.CurrentProject(context.Background(), m.deps.Settings)
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.search = ""
		m.cursor = 0
		return m, nil

	case key.Matches(msg, keys.Submit):
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live filter as user types
	m.search = m.input.Value()
	m.cursor = clamp(m.cursor, m.rowCount())
	return m, cmd
}
