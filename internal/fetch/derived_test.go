package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/existflow/jera/internal/model"
)

func ptr(v int64) *int64 { return &v }

func TestOwnedBy(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, AssigneeID: 2},
		{ID: 2, AssigneeID: 3},
		{ID: 3, AssigneeID: 2},
	}

	got := UserTasks(tasks, ptr(2))
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("UserTasks = %+v", got)
	}

	none := UserTasks(tasks, nil)
	if none == nil || len(none) != 0 {
		t.Fatalf("nil user = %#v, want empty slice", none)
	}
}

func TestUserSprintsJoinsProjects(t *testing.T) {
	projects := []model.Project{{ID: 10, CreatorID: 1}, {ID: 11, CreatorID: 2}}
	sprints := []model.Sprint{
		{ID: 1, ProjectID: 10},
		{ID: 2, ProjectID: 11},
		{ID: 3, ProjectID: 99},
	}

	got := UserSprints(sprints, projects, ptr(1))
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("UserSprints = %+v", got)
	}
}

func TestUserSprintsDropsUnknownProject(t *testing.T) {
	sprints := []model.Sprint{{ID: 1, ProjectID: 99}}

	if got := UserSprints(sprints, nil, ptr(0)); len(got) != 0 {
		t.Fatalf("dangling sprint matched user 0: %+v", got)
	}
}

type fakeSource struct {
	projects []model.Project
	err      error
}

func (f *fakeSource) ListProjects(context.Context) ([]model.Project, error) {
	return f.projects, f.err
}
func (f *fakeSource) ListSprints(context.Context) ([]model.Sprint, error) { return nil, nil }
func (f *fakeSource) ListTasks(context.Context) ([]model.Task, error)     { return nil, nil }
func (f *fakeSource) ListUsers(context.Context) ([]model.User, error)     { return nil, nil }
func (f *fakeSource) TasksByProject(_ context.Context, id int64) ([]model.Task, error) {
	return []model.Task{{ID: 1, ProjectID: id}}, nil
}
func (f *fakeSource) TasksBySprint(context.Context, int64) ([]model.Task, error)   { return nil, nil }
func (f *fakeSource) TasksByAssignee(context.Context, int64) ([]model.Task, error) { return nil, nil }

func TestDerivedViewSharesSourceState(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{projects: []model.Project{{ID: 1, CreatorID: 5}, {ID: 2, CreatorID: 6}}}
	c := NewCollections(src)
	defer c.Close()

	mine := c.UserProjects(ptr(5))
	if st := mine.State(); st.Loaded || len(st.Data) != 0 {
		t.Fatalf("before load = %+v", st)
	}

	if err := c.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if st := mine.State(); len(st.Data) != 1 || st.Data[0].ID != 1 {
		t.Fatalf("UserProjects = %+v", st)
	}

	src.err = errors.New("offline")
	if err := mine.Refetch(ctx); err == nil {
		t.Fatal("expected refetch error")
	}
	st := mine.State()
	if st.Message() != "offline" || len(st.Data) != 1 {
		t.Fatalf("after failure = %+v", st)
	}
}

func TestKeyedCollection(t *testing.T) {
	c := NewCollections(&fakeSource{})
	k := c.TasksByProject(7)
	if err := k.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if data := k.State().Data; len(data) != 1 || data[0].ProjectID != 7 {
		t.Fatalf("TasksByProject = %+v", data)
	}
}

type slowSource struct {
	fakeSource
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *slowSource) ListProjects(ctx context.Context) ([]model.Project, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	if n == 1 {
		close(s.started)
		<-s.release
		return []model.Project{{ID: 1}}, nil
	}
	return []model.Project{{ID: 1}, {ID: 2}}, nil
}

func TestOverlappingLoadAllIsNotAnError(t *testing.T) {
	ctx := context.Background()
	src := &slowSource{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCollections(src)
	defer c.Close()

	first := make(chan error, 1)
	go func() { first <- c.LoadAll(ctx) }()
	<-src.started

	if err := c.LoadAll(ctx); err != nil {
		t.Fatalf("second LoadAll: %v", err)
	}
	close(src.release)

	if err := <-first; err != nil {
		t.Fatalf("overtaken LoadAll = %v, want nil", err)
	}
	if st := c.Projects.State(); len(st.Data) != 2 || st.Err != nil {
		t.Fatalf("projects = %+v", st)
	}
}

func TestSettled(t *testing.T) {
	if Settled(ErrSuperseded) != nil {
		t.Fatal("superseded kept")
	}
	offline := errors.New("offline")
	if Settled(offline) != offline {
		t.Fatal("real error dropped")
	}
}
