package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/jera/internal/api"
	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/session"
	"github.com/existflow/jera/internal/storage"
)

type fakeServer struct {
	mu      sync.Mutex
	updates []model.TaskRequest
	deletes []string
	// gate holds the next /projects response until the test releases it.
	gate chan struct{}
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok"}`))
	})
	mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		gate := f.gate
		f.gate = nil
		f.mu.Unlock()
		if gate != nil {
			gate <- struct{}{}
			<-gate
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"CRM","status":"in progress","creatorId":1}]`))
	})
	mux.HandleFunc("/sprints", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ana","username":"ana"}]`))
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Low one","status":"to do","priority":"low","projectId":1,"assigneeId":1},
			{"id":2,"name":"Urgent","status":"in progress","priority":"high","projectId":1,"assigneeId":1}
		]`))
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			var req model.TaskRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode: %v", err)
			}
			f.updates = append(f.updates, req)
			_, _ = w.Write([]byte(`{"id":1}`))
		case http.MethodDelete:
			f.deletes = append(f.deletes, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	return mux
}

func newTestModel(t *testing.T, signedIn, confirm bool) (Model, *fakeServer) {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	kv := storage.NewMemory()
	sess := session.New(kv)
	sess.Init(ctx)
	if signedIn {
		if err := sess.Login(ctx, &model.User{ID: 1, Name: "Ana", Username: "ana"}, "tok", true); err != nil {
			t.Fatal(err)
		}
	}
	client := api.New(srv.URL, sess)
	m := NewModel(Deps{
		Client:   client,
		Session:  sess,
		Data:     fetch.NewCollections(client),
		Settings: kv,
		Confirm:  confirm,
	})
	t.Cleanup(m.Close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), fake
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.loadCmd()()
	if lm, ok := msg.(loadedMsg); !ok || lm.err != nil {
		t.Fatalf("load = %#v", msg)
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestAnonymousShowsLogin(t *testing.T) {
	m, _ := newTestModel(t, false, true)
	if out := m.View(); !strings.Contains(out, "Sign in to") {
		t.Fatalf("view does not show login form:\n%s", out)
	}
	// Navigation keys go to the form, not the tabs.
	m, _ = press(t, m, "4")
	if m.tab != TabDashboard {
		t.Fatalf("tab = %v while signed out", m.tab)
	}
}

func TestLoginRequiresFields(t *testing.T) {
	m, _ := newTestModel(t, false, true)
	m, _ = press(t, m, "enter") // move to password
	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatal("empty form started a login")
	}
	if m.login.err != "username is required" {
		t.Fatalf("login error = %q", m.login.err)
	}
}

func TestLoginFlow(t *testing.T) {
	m, _ := newTestModel(t, false, true)
	msg := m.loginCmd(model.LoginCredentials{Username: "ana", Password: "pw"})()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		t.Fatal("login did not trigger a load")
	}
	if !m.deps.Session.State().Authenticated {
		t.Fatal("session not authenticated after login")
	}
	if u := m.deps.Session.User(); u == nil || u.ID != 1 {
		t.Fatalf("user = %+v", u)
	}
}

func TestTabsAndFilters(t *testing.T) {
	m, _ := newTestModel(t, true, true)
	m = load(t, m)

	m, _ = press(t, m, "4")
	if m.tab != TabTasks || m.rowCount() != 2 {
		t.Fatalf("tab = %v rows = %d", m.tab, m.rowCount())
	}
	// High priority sorts first.
	if task := m.selectedTask(); task == nil || task.ID != 2 {
		t.Fatalf("selected = %+v", task)
	}

	m, _ = press(t, m, "f")
	if m.status != string(model.StatusToDo) || m.rowCount() != 1 {
		t.Fatalf("status filter = %q rows = %d", m.status, m.rowCount())
	}

	m, _ = press(t, m, "tab")
	if m.tab != TabUsers || m.status != "" {
		t.Fatalf("tab switch kept filters: tab=%v status=%q", m.tab, m.status)
	}
	if !strings.Contains(m.View(), "(you)") {
		t.Fatal("users tab does not mark the current user")
	}
}

func TestSearchMode(t *testing.T) {
	m, _ := newTestModel(t, true, true)
	m = load(t, m)
	m, _ = press(t, m, "4")
	m, _ = press(t, m, "/")
	if m.mode != ModeSearch {
		t.Fatalf("mode = %v", m.mode)
	}
	for _, r := range "urg" {
		m, _ = press(t, m, string(r))
	}
	if m.search != "urg" || m.rowCount() != 1 {
		t.Fatalf("search = %q rows = %d", m.search, m.rowCount())
	}
	m, _ = press(t, m, "enter")
	if m.mode != ModeNormal || m.search != "urg" {
		t.Fatal("enter should keep the search")
	}
	m, _ = press(t, m, "esc")
	if m.search != "" {
		t.Fatal("esc did not clear the filter")
	}
}

func TestToggleDoneSendsUpdate(t *testing.T) {
	m, fake := newTestModel(t, true, true)
	m = load(t, m)
	m, _ = press(t, m, "4")
	m, _ = press(t, m, "j") // the low priority "to do" task

	_, cmd := press(t, m, "x")
	if cmd == nil {
		t.Fatal("x produced no command")
	}
	if done, ok := cmd().(doneMsg); !ok || done.err != nil {
		t.Fatalf("mutation = %#v", done)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.updates) != 1 || fake.updates[0].Status != model.StatusDone || fake.updates[0].Name != "Low one" {
		t.Fatalf("updates = %+v", fake.updates)
	}
}

func TestDeleteAsksFirst(t *testing.T) {
	m, fake := newTestModel(t, true, true)
	m = load(t, m)
	m, _ = press(t, m, "4")

	m, cmd := press(t, m, "d")
	if m.mode != ModeConfirm || cmd != nil {
		t.Fatalf("mode = %v cmd = %v", m.mode, cmd)
	}
	m, cmd = press(t, m, "n")
	if m.mode != ModeNormal || cmd != nil || m.message != "Cancelled" {
		t.Fatalf("cancel: mode=%v message=%q", m.mode, m.message)
	}

	m, _ = press(t, m, "d")
	_, cmd = press(t, m, "y")
	if cmd == nil {
		t.Fatal("confirm produced no command")
	}
	cmd()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.deletes) != 1 || fake.deletes[0] != "/tasks/2" {
		t.Fatalf("deletes = %v", fake.deletes)
	}
}

func TestNotifierReachesStatusBar(t *testing.T) {
	m, _ := newTestModel(t, true, false)
	m = load(t, m)
	m, _ = press(t, m, "4")
	_, cmd := press(t, m, "d")
	cmd()

	// Drain queued events until the notification.
	for found := false; !found; {
		select {
		case msg := <-m.events:
			next, _ := m.Update(msg)
			m = next.(Model)
			_, found = msg.(noteMsg)
		default:
			t.Fatal("no notification queued")
		}
	}
	if m.message != "Task deleted" || m.failed {
		t.Fatalf("message = %q failed = %v", m.message, m.failed)
	}
}

func TestSetCurrentProject(t *testing.T) {
	m, _ := newTestModel(t, true, true)
	m = load(t, m)
	m, _ = press(t, m, "2")
	m, _ = press(t, m, "c")
	if got := storage.CurrentProject(context.Background(), m.deps.Settings); got != 1 {
		t.Fatalf("current project = %d", got)
	}
	if m.taskProject() != 1 {
		t.Fatalf("taskProject = %d", m.taskProject())
	}
}

func TestHelpers(t *testing.T) {
	if got := truncate("héllo world", 8); got != "héllo..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := nextStatusFilter(TabSprints, string(model.SprintEnded)); got != "" {
		t.Fatalf("cycle wraps to all, got %q", got)
	}
	if got := nextStatusFilter(TabUsers, ""); got != "" {
		t.Fatalf("users have no status filter, got %q", got)
	}
	if advanceStatus(model.StatusInProgress) != model.StatusDone || advanceStatus(model.StatusDone) != model.StatusToDo {
		t.Fatal("advanceStatus order")
	}
	if clamp(5, 3) != 2 || clamp(-1, 3) != 0 || clamp(2, 0) != 0 {
		t.Fatal("clamp")
	}
}

func TestOverlappingRefreshIsNotAFailure(t *testing.T) {
	m, fake := newTestModel(t, true, false)
	gate := make(chan struct{})
	fake.mu.Lock()
	fake.gate = gate
	fake.mu.Unlock()

	first := make(chan tea.Msg, 1)
	go func() { first <- m.loadCmd()() }()
	<-gate

	second := m.loadCmd()()
	gate <- struct{}{}

	for _, msg := range []tea.Msg{second, <-first} {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	if m.failed || strings.Contains(m.message, "Failed to load") {
		t.Fatalf("status after overlapping refresh = %q failed=%v", m.message, m.failed)
	}
	if got := len(m.deps.Data.Projects.State().Data); got != 1 {
		t.Fatalf("projects loaded = %d, want 1", got)
	}
}
