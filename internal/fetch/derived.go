package fetch

import (
	"context"

	"github.com/existflow/jera/internal/model"
)

// View derives a value from a source resource without a network call. It
// shares the source's Loading, Err and Refetch.
type View[S, T any] struct {
	src    *Resource[S]
	derive func(S) T
}

// Derive wraps src with a pure transformation.
func Derive[S, T any](src *Resource[S], derive func(S) T) *View[S, T] {
	return &View[S, T]{src: src, derive: derive}
}

func (v *View[S, T]) State() State[T] {
	return v.convert(v.src.State())
}

func (v *View[S, T]) Refetch(ctx context.Context) error {
	return v.src.Refetch(ctx)
}

func (v *View[S, T]) Subscribe(fn func(State[T])) func() {
	return v.src.Subscribe(func(st State[S]) { fn(v.convert(st)) })
}

func (v *View[S, T]) convert(st State[S]) State[T] {
	out := State[T]{Loading: st.Loading, Err: st.Err, Loaded: st.Loaded}
	if st.Loaded {
		out.Data = v.derive(st.Data)
	}
	return out
}

// OwnedBy returns the items whose key equals *userID, or an empty slice
// when userID is nil. This is a convenience view, not access control.
func OwnedBy[T any](items []T, userID *int64, key func(T) int64) []T {
	out := []T{}
	if userID == nil {
		return out
	}
	for _, item := range items {
		if key(item) == *userID {
			out = append(out, item)
		}
	}
	return out
}

// UserProjects keeps projects created by the user.
func UserProjects(projects []model.Project, userID *int64) []model.Project {
	return OwnedBy(projects, userID, func(p model.Project) int64 { return p.CreatorID })
}

// UserTasks keeps tasks assigned to the user.
func UserTasks(tasks []model.Task, userID *int64) []model.Task {
	return OwnedBy(tasks, userID, func(t model.Task) int64 { return t.AssigneeID })
}

// UserSprints keeps sprints whose project was created by the user. Sprints
// pointing at an unknown project are dropped.
func UserSprints(sprints []model.Sprint, projects []model.Project, userID *int64) []model.Sprint {
	out := []model.Sprint{}
	if userID == nil {
		return out
	}
	creators := make(map[int64]int64, len(projects))
	for _, p := range projects {
		creators[p.ID] = p.CreatorID
	}
	for _, s := range sprints {
		if creator, ok := creators[s.ProjectID]; ok && creator == *userID {
			out = append(out, s)
		}
	}
	return out
}
