package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/existflow/jera/internal/model"
)

func (c *Client) ListAdministrators(ctx context.Context) ([]model.Administrator, error) {
	return list[model.Administrator](ctx, c, "/administrators")
}

func (c *Client) GetAdministrator(ctx context.Context, id int64) (*model.Administrator, error) {
	return get[model.Administrator](ctx, c, fmt.Sprintf("/administrators/%d", id))
}

// AdministratorByUser returns the overlay for a user, or (nil, nil) when the
// user is not an administrator.
func (c *Client) AdministratorByUser(ctx context.Context, userID int64) (*model.Administrator, error) {
	admin, err := get[model.Administrator](ctx, c, fmt.Sprintf("/administrators/user/%d", userID))
	if IsNotFound(err) {
		return nil, nil
	}
	return admin, err
}

// AdministratorsByLevel lists administrators of one level.
func (c *Client) AdministratorsByLevel(ctx context.Context, level model.AdminLevel) ([]model.Administrator, error) {
	return list[model.Administrator](ctx, c, "/administrators/level/"+url.PathEscape(string(level)))
}

func (c *Client) CreateAdministrator(ctx context.Context, req model.AdministratorRequest) (*model.Administrator, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Administrator](ctx, c, http.MethodPost, "/administrators", req)
}

func (c *Client) UpdateAdministrator(ctx context.Context, id int64, req model.AdministratorRequest) (*model.Administrator, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return send[model.Administrator](ctx, c, http.MethodPut, fmt.Sprintf("/administrators/%d", id), req)
}

func (c *Client) DeleteAdministrator(ctx context.Context, id int64) error {
	return remove(ctx, c, fmt.Sprintf("/administrators/%d", id))
}

// ActivateAdministrator re-enables an overlay.
func (c *Client) ActivateAdministrator(ctx context.Context, id int64) (*model.Administrator, error) {
	return send[model.Administrator](ctx, c, http.MethodPut, fmt.Sprintf("/administrators/%d/activate", id), nil)
}

// DeactivateAdministrator disables an overlay without deleting it.
func (c *Client) DeactivateAdministrator(ctx context.Context, id int64) (*model.Administrator, error) {
	return send[model.Administrator](ctx, c, http.MethodPut, fmt.Sprintf("/administrators/%d/deactivate", id), nil)
}
