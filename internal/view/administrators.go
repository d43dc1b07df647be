package view

import (
	"context"

	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/model"
)

type AdministratorAPI interface {
	ListAdministrators(ctx context.Context) ([]model.Administrator, error)
	AdministratorsByLevel(ctx context.Context, level model.AdminLevel) ([]model.Administrator, error)
	AdministratorByUser(ctx context.Context, userID int64) (*model.Administrator, error)
	CreateAdministrator(ctx context.Context, req model.AdministratorRequest) (*model.Administrator, error)
	UpdateAdministrator(ctx context.Context, id int64, req model.AdministratorRequest) (*model.Administrator, error)
	DeleteAdministrator(ctx context.Context, id int64) error
	ActivateAdministrator(ctx context.Context, id int64) (*model.Administrator, error)
	DeactivateAdministrator(ctx context.Context, id int64) (*model.Administrator, error)
}

type AdminCard struct {
	Admin model.Administrator
	User  string
	State string
}

// AdministratorsPage lists the administrator overlays, optionally of one
// level.
type AdministratorsPage struct {
	api    AdministratorAPI
	admins *fetch.Keyed[model.AdminLevel, []model.Administrator]
	users  *fetch.Resource[[]model.User]
	notify Notifier
}

func NewAdministratorsPage(api AdministratorAPI, data *fetch.Collections, n Notifier) *AdministratorsPage {
	load := func(ctx context.Context, level model.AdminLevel) ([]model.Administrator, error) {
		if level == "" {
			return api.ListAdministrators(ctx)
		}
		return api.AdministratorsByLevel(ctx, level)
	}
	return &AdministratorsPage{
		api:    api,
		admins: fetch.NewKeyed(load, model.AdminLevel("")),
		users:  data.Users,
		notify: n,
	}
}

func (p *AdministratorsPage) Load(ctx context.Context) error {
	if err := p.admins.Load(ctx); err != nil {
		return err
	}
	return p.users.Load(ctx)
}

// SetLevel switches the level filter; "" lists every level.
func (p *AdministratorsPage) SetLevel(ctx context.Context, level model.AdminLevel) error {
	return p.admins.SetKey(ctx, level)
}

func (p *AdministratorsPage) State() fetch.State[[]model.Administrator] {
	return p.admins.State()
}

func (p *AdministratorsPage) Cards(search string) []AdminCard {
	users := p.users.State().Data
	admins := Search(p.admins.State().Data, search,
		func(a model.Administrator) string { return UserName(users, a.UserID) },
		func(a model.Administrator) string { return string(a.Level) })

	cards := make([]AdminCard, 0, len(admins))
	for _, a := range admins {
		state := "inactive"
		if a.Active {
			state = "active"
		}
		cards = append(cards, AdminCard{Admin: a, User: UserName(users, a.UserID), State: state})
	}
	return cards
}

// ForUser returns the user's overlay, or nil when the user is not an
// administrator.
func (p *AdministratorsPage) ForUser(ctx context.Context, userID int64) (*model.Administrator, error) {
	return p.api.AdministratorByUser(ctx, userID)
}

func (p *AdministratorsPage) Grant(ctx context.Context, req model.AdministratorRequest) error {
	return mutate(p.notify, "grant administrator", "Administrator granted", req.Validate,
		func() error { _, err := p.api.CreateAdministrator(ctx, req); return err },
		func() error { return p.admins.Refetch(ctx) })
}

func (p *AdministratorsPage) Update(ctx context.Context, id int64, req model.AdministratorRequest) error {
	return mutate(p.notify, "update administrator", "Administrator updated", req.Validate,
		func() error { _, err := p.api.UpdateAdministrator(ctx, id, req); return err },
		func() error { return p.admins.Refetch(ctx) })
}

func (p *AdministratorsPage) Revoke(ctx context.Context, id int64) error {
	return mutate(p.notify, "revoke administrator", "Administrator revoked", nil,
		func() error { return p.api.DeleteAdministrator(ctx, id) },
		func() error { return p.admins.Refetch(ctx) })
}

// SetActive activates or deactivates an overlay.
func (p *AdministratorsPage) SetActive(ctx context.Context, id int64, active bool) error {
	action, done := "deactivate administrator", "Administrator deactivated"
	call := p.api.DeactivateAdministrator
	if active {
		action, done = "activate administrator", "Administrator activated"
		call = p.api.ActivateAdministrator
	}
	return mutate(p.notify, action, done, nil,
		func() error { _, err := call(ctx, id); return err },
		func() error { return p.admins.Refetch(ctx) })
}
