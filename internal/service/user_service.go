package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/dental-solution/internal/auth"
	"github.com/spec-kit/dental-solution/internal/config"
	"github.com/spec-kit/dental-solution/internal/domain"
	"github.com/spec-kit/dental-solution/internal/events"
	"github.com/spec-kit/dental-solution/internal/repository"
	apperrors "github.com/spec-kit/dental-solution/pkg/util/errorutil"
)

// UserService coordinates registration, login and account administration.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// UserDependencies encapsulates collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput describes a registration request. Extra holds every
// submitted field the service does not manage itself.
type RegisterInput struct {
	Email    string
	Password string
	Role     string
	Extra    map[string]any
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates an account unless the email is already registered.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = domain.RoleUser
	}

	extra := make(map[string]any, len(input.Extra))
	for k, v := range input.Extra {
		if !domain.IsReservedUserField(k) {
			extra[k] = v
		}
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
		Extra:        extra,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !created {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	}

	emit(ctx, s.dispatcher, s.logger, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})
	return user, nil
}

// Login authenticates by email and password and returns the stored account.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if user.Status == domain.UserStatusLocked {
		return nil, apperrors.NewForbidden("account locked")
	}
	if user.Email != email {
		return nil, apperrors.NewInternalError(errors.New("user lookup returned a different email"))
	}

	switch err := auth.ComparePassword(user.PasswordHash, password); {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrPasswordMismatch):
		return nil, apperrors.NewUnauthorized("invalid credentials")
	default:
		return nil, apperrors.NewInternalError(err)
	}
}

// ListUsers returns users with the role, optionally narrowed by status. An
// empty result is reported as not found.
func (s *UserService) ListUsers(ctx context.Context, role string, status *domain.UserStatus) ([]domain.User, error) {
	users, err := s.users.List(ctx, role, status)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(users) == 0 {
		return nil, apperrors.NewNotFound("users", map[string]any{"role": role})
	}
	return users, nil
}

// UpdateStatus locks the account for the "Lock" label and activates it for
// any other label. It reports whether the stored status changed.
func (s *UserService) UpdateStatus(ctx context.Context, id, label string) (bool, error) {
	status := domain.StatusFromLabel(label)

	changed, err := s.users.UpdateStatus(ctx, id, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}

	emit(ctx, s.dispatcher, s.logger, events.EventUserStatusChanged, id, events.UserStatusChangedPayload{
		Status:  int(status),
		Changed: changed,
	})
	return changed, nil
}
