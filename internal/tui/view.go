package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/storage"
	"github.com/existflow/jera/internal/view"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	st := m.deps.Session.State()
	if st.Loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpStyle.Render("Loading..."))
	}
	if !st.Authenticated {
		return m.renderLogin()
	}

	header := m.renderHeader()
	var body string
	switch m.tab {
	case TabDashboard:
		body = m.renderDashboard()
	case TabProjects:
		body = m.renderProjects()
	case TabSprints:
		body = m.renderSprints()
	case TabTasks:
		body = m.renderTasks()
	case TabUsers:
		body = m.renderUsers()
	}
	bodyHeight := m.height - lipgloss.Height(header) - 2
	mainContent := ContentStyle.Width(m.width).Height(bodyHeight).Render(body)

	switch m.mode {
	case ModeAddTask, ModeAddProject, ModeConfirm:
		mainContent = lipgloss.Place(
			m.width, bodyHeight,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	case ModeHelp:
		mainContent = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, mainContent, m.renderStatusBar())
}

func (m Model) renderLogin() string {
	f := m.login
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Jera") + "\n"
	content += HelpStyle.Render("Sign in to "+m.deps.Client.BaseURL()) + "\n\n"
	content += "Username\n" + f.username.View() + "\n\n"
	content += "Password\n" + f.password.View() + "\n\n"
	switch {
	case f.busy:
		content += HelpStyle.Render("Signing in...") + "\n\n"
	case f.err != "":
		content += ErrorStyle.Render(f.err) + "\n\n"
	}
	content += HelpStyle.Render("Enter:next/sign in  Tab:switch field  Esc:quit")
	if m.message != "" {
		content += "\n\n" + HelpStyle.Render(m.message)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, ModalStyle.Render(content))
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Jera")
	who := ""
	if u := m.deps.Session.User(); u != nil {
		who = HelpStyle.Render(fmt.Sprintf("%s (@%s)  %s", u.Name, u.Username, time.Now().Format("15:04")))
	}

	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t.String())
		if t == m.tab {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(who) - 4
	top := HeaderStyle.Render(title + repeat(" ", gap) + who)
	return lipgloss.JoinVertical(lipgloss.Left, top, row,
		lipgloss.NewStyle().Foreground(Border).Render(repeat("─", m.width)))
}

// loadingOrError renders a resource's state when it has nothing to list yet.
func loadingOrError(loading bool, err error, what string) (string, bool) {
	if err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Failed to load %s: %v", what, err)), true
	}
	if loading {
		return HelpStyle.Render("Loading " + what + "..."), true
	}
	return "", false
}

func (m Model) rowStyle(i int, done bool) (string, lipgloss.Style) {
	cursor := "  "
	style := ItemStyle
	if done {
		style = ItemDoneStyle
	}
	if i == m.cursor {
		cursor = "❯ "
		style = ItemSelectedStyle
	}
	return cursor, style
}

func (m Model) filterLine() string {
	var parts []string
	if m.search != "" {
		parts = append(parts, "/"+m.search)
	}
	if m.status != "" {
		parts = append(parts, "status:"+m.status)
	}
	if m.mine {
		parts = append(parts, "mine")
	}
	if len(parts) == 0 {
		return ""
	}
	return HelpStyle.Render("Filter: "+strings.Join(parts, "  ")) + "\n\n"
}

func (m Model) renderDashboard() string {
	s := m.dash.Summary()
	if msg, ok := loadingOrError(s.Loading && len(s.Recent) == 0, s.Err, "dashboard"); ok {
		return msg
	}

	card := func(label string, n int) string {
		return StatCardStyle.Render(HelpStyle.Render(label) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(fmt.Sprintf("%d", n)))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Active projects", s.ActiveProjects),
		card("Active tasks", s.ActiveTasks),
		card("Active sprints", s.ActiveSprints)) + "\n\n"

	out += lipgloss.NewStyle().Bold(true).Render("Recent projects") + "\n\n"
	if len(s.Recent) == 0 {
		return out + HelpStyle.Render("  No projects yet. Press 'p' to create one.")
	}
	tasks := m.deps.Data.Tasks.State().Data
	for i, p := range s.Recent {
		cursor, style := m.rowStyle(i, false)
		percent := view.CompletionPercent(view.TasksOf(tasks, p.ID))
		line := fmt.Sprintf("%s%-30s %s %3d%%", cursor, truncate(p.Name, 30), progress(percent, 16), percent)
		out += style.Render(line) + " " + StatusStyle(string(p.Status)).Render(view.StatusLabel(string(p.Status))) + "\n"
	}
	return out
}

func progress(percent, width int) string {
	filled := percent * width / 100
	return SuccessStyle.Render(repeat("█", filled)) + HelpStyle.Render(repeat("░", width-filled))
}

func (m Model) renderProjects() string {
	st := m.projects.State()
	cards := m.projectCards()
	if msg, ok := loadingOrError(st.Loading && !st.Loaded, st.Err, "projects"); ok && len(cards) == 0 {
		return msg
	}

	out := m.filterLine()
	if len(cards) == 0 {
		return out + HelpStyle.Render("  No projects found. Press 'p' to add one.")
	}
	current := storage.CurrentProject(context.Background(), m.deps.Settings)
	for i, c := range cards {
		cursor, style := m.rowStyle(i, false)
		marker := " "
		if c.Project.ID == current {
			marker = "●"
		}
		due := ""
		if c.Project.Deadline.IsSet() {
			due = dueLabel(c.DaysLeft)
		}
		line := fmt.Sprintf("%s%s %-28s %s %3d%%  %-12s %-14s", cursor, marker,
			truncate(c.Project.Name, 28), progress(c.Progress, 12), c.Progress, truncate(c.Creator, 12), due)
		out += style.Render(line) + " " + StatusStyle(string(c.Project.Status)).Render(c.Status) + "\n"
	}
	return out
}

func dueLabel(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%dd overdue", -days)
	case days == 0:
		return "due today"
	default:
		return fmt.Sprintf("%dd left", days)
	}
}

func (m Model) renderSprints() string {
	st := m.sprints.State()
	cards := m.sprintCards()
	if msg, ok := loadingOrError(st.Loading && !st.Loaded, st.Err, "sprints"); ok && len(cards) == 0 {
		return msg
	}

	out := m.filterLine()
	if len(cards) == 0 {
		return out + HelpStyle.Render("  No sprints found.")
	}
	for i, c := range cards {
		cursor, style := m.rowStyle(i, c.Sprint.Status == model.SprintEnded)
		line := fmt.Sprintf("%s%-24s %-18s %s %3d%%  %s → %s", cursor,
			truncate(c.Sprint.Name, 24), truncate(c.Project, 18), progress(c.Progress, 12), c.Progress,
			view.FormatDate(c.Sprint.StartDate), view.FormatDate(c.Sprint.EndDate))
		out += style.Render(line) + " " + StatusStyle(string(c.Sprint.Status)).Render(c.Status) + "\n"
	}
	return out
}

func (m Model) renderTasks() string {
	st := m.tasks.State()
	cards := m.taskCards()
	if msg, ok := loadingOrError(st.Loading && !st.Loaded, st.Err, "tasks"); ok && len(cards) == 0 {
		return msg
	}

	stats := m.tasks.Stats(m.taskFilter())
	out := HelpStyle.Render(fmt.Sprintf("%d tasks  %d to do  %d in progress  %d done",
		stats.Total, stats.ToDo, stats.InProgress, stats.Done)) + "\n"
	if f := m.filterLine(); f != "" {
		out += f
	} else {
		out += "\n"
	}
	if len(cards) == 0 {
		return out + HelpStyle.Render("  No tasks. Press 'a' to add one.")
	}

	width := m.width - 70
	if width < 20 {
		width = 20
	}
	for i, c := range cards {
		cursor, style := m.rowStyle(i, c.Task.IsDone())
		icon := "[ ]"
		switch c.Task.Status {
		case model.StatusDone:
			icon = "[x]"
		case model.StatusInProgress:
			icon = "[~]"
		}
		line := fmt.Sprintf("%s%s %-*s %-16s %-12s", cursor, icon, width,
			truncate(c.Task.Name, width), truncate(c.Project, 16), truncate(c.Assignee, 12))
		out += style.Render(line) + " " + PriorityStyle(c.Task.Priority).Render(c.Priority) + "\n"
	}
	return out
}

func (m Model) renderUsers() string {
	st := m.users.State()
	users := m.userList()
	if msg, ok := loadingOrError(st.Loading && !st.Loaded, st.Err, "users"); ok && len(users) == 0 {
		return msg
	}

	out := m.filterLine()
	if len(users) == 0 {
		return out + HelpStyle.Render("  No users found.")
	}
	me := m.deps.Session.UserID()
	for i, u := range users {
		cursor, style := m.rowStyle(i, false)
		you := ""
		if me != nil && *me == u.ID {
			you = " (you)"
		}
		line := fmt.Sprintf("%s%-24s %-16s %s", cursor, truncate(u.Name+you, 24), truncate("@"+u.Username, 16), u.Email)
		out += style.Render(line) + "\n"
	}
	return out
}

func (m Model) renderStatusBar() string {
	// When searching, show inline search input (like vim)
	if m.mode == ModeSearch {
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + fmt.Sprintf("  [%d]", m.rowCount()))
	}

	help := "1-5:tabs  /:search  f:status  m:mine  r:refresh  ?:help  q:quit  L:logout"
	switch m.tab {
	case TabTasks:
		help = "a:add  x:done  s:status  d:del  " + help
	case TabProjects:
		help = "p:new  c:current  d:del  " + help
	case TabSprints, TabUsers:
		help = "d:del  " + help
	}
	if m.message != "" {
		if m.failed {
			help = ErrorStyle.Render(m.message)
		} else {
			help = SuccessStyle.Render(m.message)
		}
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	var content string
	switch m.mode {
	case ModeConfirm:
		label := ""
		if m.pending != nil {
			label = m.pending.label
		}
		content = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor).Render("Delete "+label+"?") + "\n\n"
		content += HelpStyle.Render("y:delete  any other key:cancel")
		return ModalStyle.Render(content)
	case ModeAddProject:
		content = lipgloss.NewStyle().Bold(true).Render("New Project") + "\n\n"
	default:
		title := "Add Task"
		if id := m.taskProject(); id != 0 {
			title = "Add Task to: " + view.ProjectName(m.deps.Data.Projects.State().Data, id)
		}
		content = lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	}
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")
	return ModalStyle.Render(content)
}

func renderHelp() string {
	return `
╭─── Keyboard Shortcuts ─────────╮
│                                │
│  Navigation                    │
│  ──────────                    │
│  1-5 / Tab   Switch tab        │
│  j/↓ k/↑     Move              │
│  g / G       Top / bottom      │
│                                │
│  Lists                         │
│  ─────                         │
│  /           Search            │
│  f           Cycle status      │
│  m           Only mine         │
│  Esc         Clear filters     │
│  r           Refresh           │
│                                │
│  Actions                       │
│  ───────                       │
│  a           Add task          │
│  p           New project       │
│  c           Set current proj  │
│  x/Enter     Toggle done       │
│  s           Next task status  │
│  d           Delete            │
│                                │
│  Other                         │
│  ─────                         │
│  L           Logout            │
│  ?           Toggle help       │
│  q           Quit              │
│                                │
╰────────────────────────────────╯

     Press any key to close
`
}
