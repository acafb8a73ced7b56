package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"financehub/internal/storage"
)

// Collection persists a slice of T as one JSON array under a fixed key.
//
// Load seeds the slot on first use and reseeds it when the stored value
// cannot be decoded; decode failures are logged and never returned. Errors
// from the storage medium itself are returned.
type Collection[T any] struct {
	store  storage.Store
	key    string
	seed   func() []T
	logger logrus.FieldLogger
}

func NewCollection[T any](store storage.Store, key string, seed func() []T, logger logrus.FieldLogger) *Collection[T] {
	if logger == nil {
		logger = logrus.New()
	}
	return &Collection[T]{
		store:  store,
		key:    key,
		seed:   seed,
		logger: logger.WithField("slot", key),
	}
}

func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, found, err := c.store.LoadRaw(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if found {
		items, err := decode[T](raw)
		if err == nil {
			return items, nil
		}
		c.logger.Warnf("reseed %s: %v", c.key, err)
	} else {
		c.logger.Infof("seed %s", c.key)
	}

	items := c.seed()
	if err := c.Save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.store.SaveRaw(ctx, c.key, raw)
}

func decode[T any](raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if items == nil {
		return nil, fmt.Errorf("decode: stored value is not an array")
	}
	return items, nil
}
