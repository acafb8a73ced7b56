package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"financehub/internal/domain"
	"financehub/internal/repository"
)

// UserService is the mock remote API for users.
type UserService interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	// GetByID reports a missing user with found=false, not an error.
	GetByID(ctx context.Context, id string) (user domain.User, found bool, err error)
	Create(ctx context.Context, input domain.CreateUserInput) (domain.User, error)
	Update(ctx context.Context, id string, input domain.UpdateUserInput) (domain.User, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserRepository
	opts  Options
	// mu serializes load→mutate→save; the slot has no transactions.
	mu sync.Mutex
}

func NewUserService(users repository.UserRepository, opts Options) UserService {
	opts = opts.withDefaults()
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &userService{
		users: users,
		opts:  opts,
	}
}

func (s *userService) GetAll(ctx context.Context) (_ []domain.User, err error) {
	defer s.observe("getAll", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.GetAll); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.Load(ctx)
}

func (s *userService) GetByID(ctx context.Context, id string) (_ domain.User, _ bool, err error) {
	defer s.observe("getById", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.GetByID); err != nil {
		return domain.User{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.users.Load(ctx)
	if err != nil {
		return domain.User{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *userService) Create(ctx context.Context, input domain.CreateUserInput) (_ domain.User, err error) {
	defer s.observe("create", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.Create); err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:        s.opts.NewID(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		Status:    input.Status,
		Avatar:    domain.AvatarURL(input.Name),
		CreatedAt: s.opts.Clock().UTC(),
	}
	users = append(users, user)
	if err := s.users.Save(ctx, users); err != nil {
		return domain.User{}, fmt.Errorf("save users: %w", err)
	}
	s.opts.Logger.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, input domain.UpdateUserInput) (_ domain.User, err error) {
	defer s.observe("update", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.Update); err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	index := -1
	for i := range users {
		if users[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return domain.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	users[index] = users[index].Apply(input)
	if err := s.users.Save(ctx, users); err != nil {
		return domain.User{}, fmt.Errorf("save users: %w", err)
	}
	return users[index], nil
}

func (s *userService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.Delete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.Load(ctx)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	if err := s.users.Save(ctx, kept); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	s.opts.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *userService) observe(op string, started time.Time, err *error) {
	s.opts.Metrics.ObserveAPI(EntityUsers, op, started, *err)
}
