package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/obs"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken("tok-123"), opts...)
}

func TestRequestErrorUsesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})

	_, err := c.GetProject(context.Background(), 9)
	var rerr *RequestError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *RequestError", err)
	}
	if rerr.Status != http.StatusNotFound || rerr.Message != "not found" {
		t.Fatalf("got %d %q", rerr.Status, rerr.Message)
	}
	if !IsNotFound(err) {
		t.Fatal("IsNotFound = false")
	}
}

func TestRequestErrorFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"invalid token"}`, "invalid token"},
		{"html", `<html>oops</html>`, "request failed: status 500"},
		{"empty", ``, "request failed: status 500"},
		{"blank message", `{"message":""}`, "request failed: status 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.ListTasks(context.Background())
			if err == nil || err.Error() != tc.want {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		_, _ = w.Write([]byte(`[]`))
	})

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("users = %#v, want empty slice", users)
	}
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("unexpected Authorization header")
		}
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	tasks, err := New(srv.URL, nil).ListTasks(context.Background())
	if err != nil || len(tasks) != 0 {
		t.Fatalf("ListTasks = %v, %v", tasks, err)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).ListProjects(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if StatusOf(err) != 0 {
		t.Fatal("transport error carries a status")
	}
}

func TestValidationStopsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	start, _ := model.ParseDate("2024-01-15")
	end, _ := model.ParseDate("2024-01-29")
	_, err := c.CreateSprint(context.Background(), model.SprintRequest{
		Name: "Sprint 1", StartDate: start, EndDate: end, ProjectID: 0,
	})
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("server called %d times", calls.Load())
	}
}

func TestCreateTaskSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Write docs" || body["assigneeId"] != float64(2) {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":11,"name":"Write docs","status":"to do","priority":"low","assigneeId":2,"projectId":1}`))
	})

	task, err := c.CreateTask(context.Background(), model.TaskRequest{
		Name: "Write docs", ProjectID: 1, AssigneeID: 2, Priority: model.PriorityLow,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != 11 {
		t.Fatalf("task = %+v", task)
	}
}

func TestTaskFilters(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()
	_, _ = c.TasksByProject(ctx, 1)
	_, _ = c.TasksBySprint(ctx, 2)
	_, _ = c.TasksByAssignee(ctx, 3)

	want := "/tasks/project/1,/tasks/sprint/2,/tasks/assignee/3"
	if got := strings.Join(paths, ","); got != want {
		t.Fatalf("paths = %s", got)
	}
}

func TestDeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/projects/4" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteProject(context.Background(), 4); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
}

func TestAdministratorByUserNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"administrator not found"}`))
	})
	admin, err := c.AdministratorByUser(context.Background(), 5)
	if admin != nil || err != nil {
		t.Fatalf("AdministratorByUser = %v, %v; want nil, nil", admin, err)
	}
}

func TestAdministratorActivation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/administrators/3/deactivate" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":3,"userId":7,"level":"support","active":false}`))
	})
	admin, err := c.DeactivateAdministrator(context.Background(), 3)
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if admin.ID != 3 {
		t.Fatalf("admin = %+v", admin)
	}
}

func TestMetricsRecorded(t *testing.T) {
	m := obs.NewMetrics()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, WithMetrics(m), WithRateLimit(100))

	if _, err := c.ListSprints(context.Background()); err != nil {
		t.Fatalf("ListSprints: %v", err)
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "jera_api_requests_total" && len(mf.GetMetric()) == 1 {
			return
		}
	}
	t.Fatal("request counter not recorded")
}
