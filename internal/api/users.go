package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/existflow/jera/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	return list[model.User](ctx, c, "/users")
}

func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return get[model.User](ctx, c, fmt.Sprintf("/users/%d", id))
}

func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.User](ctx, c, http.MethodPost, "/users", req)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.User](ctx, c, http.MethodPut, fmt.Sprintf("/users/%d", id), req)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return remove(ctx, c, fmt.Sprintf("/users/%d", id))
}
