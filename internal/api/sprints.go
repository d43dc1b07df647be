package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/existflow/jera/internal/model"
)

func (c *Client) ListSprints(ctx context.Context) ([]model.Sprint, error) {
	return list[model.Sprint](ctx, c, "/sprints")
}

func (c *Client) GetSprint(ctx context.Context, id int64) (*model.Sprint, error) {
	return get[model.Sprint](ctx, c, fmt.Sprintf("/sprints/%d", id))
}

func (c *Client) CreateSprint(ctx context.Context, req model.SprintRequest) (*model.Sprint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Sprint](ctx, c, http.MethodPost, "/sprints", req)
}

func (c *Client) UpdateSprint(ctx context.Context, id int64, req model.SprintRequest) (*model.Sprint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Sprint](ctx, c, http.MethodPut, fmt.Sprintf("/sprints/%d", id), req)
}

func (c *Client) DeleteSprint(ctx context.Context, id int64) error {
	return remove(ctx, c, fmt.Sprintf("/sprints/%d", id))
}
