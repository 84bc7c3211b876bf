package service

import (
	"context"
	"strings"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util/errorutil"
)

// UserUpdateInput carries a partial update. Nil or empty fields are ignored.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService manages user accounts after registration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	deps       Dependencies
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, deps Dependencies) *UserService {
	return &UserService{users: users, bcryptCost: cfg.BcryptCost, deps: deps.withDefaults()}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// Update overwrites only the supplied fields of the user.
func (s *UserService) Update(ctx context.Context, id string, in UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}

	patch := domain.UserPatch{
		Name:  nonEmpty(in.Name),
		Email: nonEmpty(in.Email),
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := hashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	patch.Apply(user)
	user.UpdatedAt = s.deps.Clock()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// Delete removes the user and returns it. Tickets and clients are untouched.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
