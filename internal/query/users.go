package query

import (
	"context"

	"financehub/internal/domain"
	"financehub/internal/service"
)

var UsersKey = Key{service.EntityUsers}

func UserKey(id string) Key { return Key{service.EntityUsers, id} }

type lookup[T any] struct {
	value T
	found bool
}

// Users reads users through the cache and invalidates the users prefix
// after every successful mutation.
type Users struct {
	client *Client
	api    service.UserService
}

func NewUsers(client *Client, api service.UserService) *Users {
	return &Users{client: client, api: api}
}

func (u *Users) List(ctx context.Context) ([]domain.User, error) {
	return Query(ctx, u.client, UsersKey, u.api.GetAll)
}

// Get caches misses too, so an unknown id is not refetched until it goes
// stale or is invalidated.
func (u *Users) Get(ctx context.Context, id string) (domain.User, bool, error) {
	res, err := Query(ctx, u.client, UserKey(id), func(ctx context.Context) (lookup[domain.User], error) {
		user, found, err := u.api.GetByID(ctx, id)
		return lookup[domain.User]{value: user, found: found}, err
	})
	return res.value, res.found, err
}

func (u *Users) Create(ctx context.Context, in domain.CreateUserInput) (domain.User, error) {
	user, err := Mutate(ctx, u.client, UsersKey, func(ctx context.Context) (domain.User, error) {
		return u.api.Create(ctx, in)
	})
	if err == nil {
		u.client.publish(ctx, Change{Entity: service.EntityUsers, ID: user.ID, Op: "create"})
	}
	return user, err
}

func (u *Users) Update(ctx context.Context, id string, in domain.UpdateUserInput) (domain.User, error) {
	user, err := Mutate(ctx, u.client, UsersKey, func(ctx context.Context) (domain.User, error) {
		return u.api.Update(ctx, id, in)
	})
	if err == nil {
		u.client.publish(ctx, Change{Entity: service.EntityUsers, ID: id, Op: "update"})
	}
	return user, err
}

func (u *Users) Delete(ctx context.Context, id string) error {
	_, err := Mutate(ctx, u.client, UsersKey, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, u.api.Delete(ctx, id)
	})
	if err == nil {
		u.client.publish(ctx, Change{Entity: service.EntityUsers, ID: id, Op: "delete"})
	}
	return err
}
