package view

import (
	"context"
	"errors"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
)

// ErrDeleteSelf is returned when a user tries to delete their own account.
var ErrDeleteSelf = errors.New("you cannot delete your own account")

type UserAPI interface {
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UsersPage struct {
	api    UserAPI
	users  *fetch.Resource[[]model.User]
	who    Identity
	notify Notifier
}

func NewUsersPage(api UserAPI, data *fetch.Collections, who Identity, n Notifier) *UsersPage {
	return &UsersPage{api: api, users: data.Users, who: who, notify: n}
}

func (p *UsersPage) Load(ctx context.Context) error {
	return p.users.Load(ctx)
}

func (p *UsersPage) State() fetch.State[[]model.User] {
	return p.users.State()
}

// List searches name, username and email.
func (p *UsersPage) List(search string) []model.User {
	return Search(p.users.State().Data, search,
		func(u model.User) string { return u.Name },
		func(u model.User) string { return u.Username },
		func(u model.User) string { return u.Email })
}

func (p *UsersPage) Create(ctx context.Context, req model.CreateUserRequest) error {
	req = req.Normalized()
	return mutate(p.notify, "create user", "User created", req.Validate,
		func() error { _, err := p.api.CreateUser(ctx, req); return err },
		func() error { return p.users.Refetch(ctx) })
}

func (p *UsersPage) Update(ctx context.Context, id int64, req model.UpdateUserRequest) error {
	return mutate(p.notify, "update user", "User updated", req.Validate,
		func() error { _, err := p.api.UpdateUser(ctx, id, req); return err },
		func() error { return p.users.Refetch(ctx) })
}

// Delete refuses to remove the signed-in user.
func (p *UsersPage) Delete(ctx context.Context, id int64) error {
	notSelf := func() error {
		if me := p.who.UserID(); me != nil && *me == id {
			return ErrDeleteSelf
		}
		return nil
	}
	return mutate(p.notify, "delete user", "User deleted", notSelf,
		func() error { return p.api.DeleteUser(ctx, id) },
		func() error { return p.users.Refetch(ctx) })
}
