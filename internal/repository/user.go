package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"financehub/internal/domain"
	"financehub/internal/storage"
)

// DefaultUsersKey is the slot holding the user collection.
const DefaultUsersKey = "users_data"

// UserRepository loads and saves the whole user collection.
type UserRepository interface {
	Load(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}

func NewUserRepository(store storage.Store, key string, logger logrus.FieldLogger) UserRepository {
	if key == "" {
		key = DefaultUsersKey
	}
	return NewCollection(store, key, DefaultUsers, logger)
}
