package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
)

// AdminGroup is the group every seeded admin belongs to.
const AdminGroup = "Admin"

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string, at time.Time) error
	CountAdmins(ctx context.Context) (int, error)
}

// UserService handles account provisioning and admin user management.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
	hashCost  int
	now       func() time.Time
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger, hashCost: bcrypt.DefaultCost, now: time.Now}
}

// List returns a page of users with pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	filter.Group = strings.TrimSpace(filter.Group)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create adds a new account. Emails are unique regardless of case.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Group = strings.TrimSpace(req.Group)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: string(passwordHash),
		Role:         role,
		GroupName:    req.Group,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("group", user.GroupName))
	return user, nil
}

// Update applies the fields present in req. An admin may not demote or
// deactivate their own account.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest, actorID string) (*models.User, error) {
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update user payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == actorID {
		if req.Role != nil && *req.Role != user.Role {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot change own role")
		}
		if req.Active != nil && !*req.Active {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot deactivate own account")
		}
	}

	if req.Email != nil && *req.Email != user.Email {
		if existing, err := s.repo.FindByEmail(ctx, *req.Email); err == nil && existing.ID != user.ID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Mobile != nil {
		user.Mobile = *req.Mobile
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Group != nil {
		user.GroupName = strings.TrimSpace(*req.Group)
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	s.logger.Info("user updated", zap.String("user_id", user.ID), zap.String("actor_id", actorID))
	return user, nil
}

// Delete deactivates an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id string, actorID string) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete own account")
	}
	if err := s.repo.Delete(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deactivated", zap.String("user_id", id), zap.String("actor_id", actorID))
	return nil
}

// EnsureAdmin creates the first admin account. It does nothing and reports
// false when an active admin already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count admins")
	}
	if count > 0 {
		return nil, false, nil
	}

	user, err := s.Create(ctx, dto.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
		Group:    AdminGroup,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
