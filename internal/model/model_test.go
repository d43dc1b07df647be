package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestSprintRequestRequiresProject(t *testing.T) {
	req := SprintRequest{
		Name:      "Sprint 1",
		StartDate: mustDate(t, "2024-01-15"),
		EndDate:   mustDate(t, "2024-01-29"),
		ProjectID: 0,
	}

	err := req.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() = %v, want ErrValidation", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "projectId" {
		t.Fatalf("Validate() field = %+v, want projectId", verr)
	}
	if verr.Message != "project is required" {
		t.Fatalf("message = %q", verr.Message)
	}
}

func TestSprintRequestValidation(t *testing.T) {
	base := SprintRequest{
		Name:      "Sprint",
		ProjectID: 3,
		StartDate: mustDate(t, "2024-02-01"),
		EndDate:   mustDate(t, "2024-02-14"),
	}

	cases := []struct {
		name  string
		edit  func(*SprintRequest)
		field string
	}{
		{"ok", func(*SprintRequest) {}, ""},
		{"blank name", func(r *SprintRequest) { r.Name = "  " }, "name"},
		{"no start", func(r *SprintRequest) { r.StartDate = Date{} }, "startDate"},
		{"no end", func(r *SprintRequest) { r.EndDate = Date{} }, "endDate"},
		{"end before start", func(r *SprintRequest) { r.EndDate = mustDate(t, "2024-01-01") }, "endDate"},
		{"bad status", func(r *SprintRequest) { r.Status = "paused" }, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.edit(&req)
			err := req.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("Validate() = %v, want field %s", err, tc.field)
			}
		})
	}
}

func TestCreateUserRequest(t *testing.T) {
	req := CreateUserRequest{Name: " Ana ", Username: " Ana.Lima ", Email: "ANA@Example.com ", Password: "secret1"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	norm := req.Normalized()
	if norm.Name != "Ana" || norm.Username != "ana.lima" || norm.Email != "ana@example.com" {
		t.Fatalf("Normalized = %+v", norm)
	}

	req.Password = "123"
	if err := req.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password accepted: %v", err)
	}
}

func TestRegistrationConfirm(t *testing.T) {
	reg := Registration{
		CreateUserRequest: CreateUserRequest{Name: "A", Username: "a", Email: "a@x", Password: "123456"},
		ConfirmPassword:   "654321",
	}
	var verr *ValidationError
	if err := reg.Validate(); !errors.As(err, &verr) || verr.Field != "confirmPassword" {
		t.Fatalf("mismatch accepted: %v", err)
	}
}

func TestTaskRequestValidation(t *testing.T) {
	req := TaskRequest{Name: "Write tests", ProjectID: 1, AssigneeID: 2, Priority: PriorityHigh}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	req.AssigneeID = 0
	if err := req.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing assignee accepted")
	}
}

func TestParseStatusSpellings(t *testing.T) {
	for _, in := range []string{"in progress", "in-progress", "IN_PROGRESS"} {
		got, err := ParseStatus(in)
		if err != nil || got != StatusInProgress {
			t.Fatalf("ParseStatus(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"in progress", "in-progress", "in_progress"} {
		got, err := ParseSprintStatus(in)
		if err != nil || got != SprintInProgress {
			t.Fatalf("ParseSprintStatus(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStatus("blocked"); err == nil {
		t.Fatal("unknown status accepted")
	}
}

func TestTaskJSONFromAPI(t *testing.T) {
	payload := `{
		"id": 7, "name": "Login page", "description": "",
		"status": "done", "priority": "medium",
		"createdAt": "2024-01-10T09:00:00Z", "completedAt": null,
		"assigneeId": 2, "sprintId": 0, "projectId": 1
	}`
	var task Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !task.IsDone() || task.CompletedAt != nil || task.AssigneeID != 2 {
		t.Fatalf("decoded task = %+v", task)
	}
	if !task.CreatedAt.Equal(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("CreatedAt = %v", task.CreatedAt)
	}
}

func TestProjectDatesAcceptBothForms(t *testing.T) {
	payload := `{"id":1,"name":"CRM","status":"in progress","startDate":"2024-01-15","deadline":"2024-02-15T00:00:00Z","creatorId":4}`
	var p Project
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.StartDate.String() != "2024-01-15" || p.Deadline.String() != "2024-02-15" {
		t.Fatalf("dates = %s / %s", p.StartDate, p.Deadline)
	}

	out, err := json.Marshal(p.Request())
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	_ = json.Unmarshal(out, &back)
	if back["deadline"] != "2024-02-15" || back["creatorId"] != float64(4) {
		t.Fatalf("request body = %s", out)
	}
}

func TestAdministratorRequest(t *testing.T) {
	if err := (AdministratorRequest{UserID: 1, Level: AdminSupport}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := (AdministratorRequest{UserID: 1, Level: "root"}).Validate(); err == nil {
		t.Fatal("unknown level accepted")
	}
}
