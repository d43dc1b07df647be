package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/existflow/jera/internal/model"
)

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	return list[model.Project](ctx, c, "/projects")
}

func (c *Client) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return get[model.Project](ctx, c, fmt.Sprintf("/projects/%d", id))
}

func (c *Client) CreateProject(ctx context.Context, req model.ProjectRequest) (*model.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Project](ctx, c, http.MethodPost, "/projects", req)
}

func (c *Client) UpdateProject(ctx context.Context, id int64, req model.ProjectRequest) (*model.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Project](ctx, c, http.MethodPut, fmt.Sprintf("/projects/%d", id), req)
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return remove(ctx, c, fmt.Sprintf("/projects/%d", id))
}
