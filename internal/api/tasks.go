package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/existflow/jera/internal/model"
)

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	return list[model.Task](ctx, c, "/tasks")
}

func (c *Client) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	return get[model.Task](ctx, c, fmt.Sprintf("/tasks/%d", id))
}

// TasksByProject lists tasks with the given project id.
func (c *Client) TasksByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	return list[model.Task](ctx, c, fmt.Sprintf("/tasks/project/%d", projectID))
}

// TasksBySprint lists tasks with the given sprint id.
func (c *Client) TasksBySprint(ctx context.Context, sprintID int64) ([]model.Task, error) {
	return list[model.Task](ctx, c, fmt.Sprintf("/tasks/sprint/%d", sprintID))
}

// TasksByAssignee lists tasks assigned to a user.
func (c *Client) TasksByAssignee(ctx context.Context, userID int64) ([]model.Task, error) {
	return list[model.Task](ctx, c, fmt.Sprintf("/tasks/assignee/%d", userID))
}

func (c *Client) CreateTask(ctx context.Context, req model.TaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Task](ctx, c, http.MethodPost, "/tasks", req)
}

func (c *Client) UpdateTask(ctx context.Context, id int64, req model.TaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Task](ctx, c, http.MethodPut, fmt.Sprintf("/tasks/%d", id), req)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return remove(ctx, c, fmt.Sprintf("/tasks/%d", id))
}
