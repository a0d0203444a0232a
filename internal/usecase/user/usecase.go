package user

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
	"user-crud-service/pkg/security"
)

// Repository defines the interface for user data access operations.
// Implementations translate storage failures into pkg/errors types:
// AlreadyExistsError for a unique violation, NotFoundError when no row
// matches, InternalError for everything else.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements the business logic for user management operations.
// Every operation issues at most one repository call.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: security.NewValidator()}
}

// CreateUser validates the input and inserts the trimmed name and email.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	if err := validateInput(s.validate, in.UserInput); err != nil {
		log.Debug("create user rejected", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:  security.TrimSpace(*in.Name),
		Email: security.TrimSpace(*in.Email),
	})
	if err != nil {
		return nil, err
	}

	log.Info("user created", zap.Int64("id", created.ID))
	return toDTO(created), nil
}

// ListUsers returns every stored user.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]User, len(rows))
	for i := range rows {
		users[i] = *toDTO(&rows[i])
	}
	return users, nil
}

// UpdateUser validates the input and replaces both name and email of the
// user identified by in.ID.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	if err := validateInput(s.validate, in.UserInput); err != nil {
		log.Debug("update user rejected", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &domain.User{
		ID:    in.ID,
		Name:  security.TrimSpace(*in.Name),
		Email: security.TrimSpace(*in.Email),
	})
	if err != nil {
		return nil, err
	}

	log.Info("user updated", zap.Int64("id", updated.ID))
	return toDTO(updated), nil
}

// DeleteUser removes the user identified by in.ID.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	if err := s.repo.Delete(ctx, in.ID); err != nil {
		return err
	}

	logger.WithContext(ctx, s.log).Info("user deleted", zap.Int64("id", in.ID))
	return nil
}

// ParseID converts a path parameter into a user ID.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.NewValidationError("id", MsgInvalidID)
	}
	return id, nil
}

func toDTO(u *domain.User) *User {
	return &User{ID: u.ID, Name: u.Name, Email: u.Email}
}
