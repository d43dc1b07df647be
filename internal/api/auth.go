package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
)

type loginResponse struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// Login exchanges credentials for a session.
//
// The login endpoint only returns a token, so the user record is found by
// listing /users with that token and matching the username. A missing match
// is reported as ErrLoginUserMismatch rather than hidden.
func (c *Client) Login(ctx context.Context, creds model.LoginCredentials) (*model.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := c.doAs(ctx, "", http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, errors.New("login response carried no token")
	}

	var users []model.User
	if err := c.doAs(ctx, token, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	username := strings.TrimSpace(creds.Username)
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			logger.Info("Logged in", logger.F("user_id", users[i].ID))
			return &model.Session{User: &users[i], Token: token}, nil
		}
	}

	logger.Warn("Login accepted but user listing has no matching username",
		logger.F("username", username),
		logger.F("users", len(users)))
	return nil, fmt.Errorf("%w: %s", ErrLoginUserMismatch, username)
}

// Register creates an account through the public user endpoint.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return send[model.User](ctx, c, http.MethodPost, "/users", reg.Normalized())
}
