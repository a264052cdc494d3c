package user

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ UserService = (*ServiceUserImpl)(nil)

// UserDirectory is the backend user API, implemented by client.UsersClient.
type UserDirectory interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id models.ID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
	Update(ctx context.Context, id models.ID, in models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id models.ID) error
	ToggleStatus(ctx context.Context, id models.ID) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// UserService defines the admin operations on console accounts.
type UserService interface {
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)
	GetUser(ctx context.Context, id models.ID) (*models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id models.ID, in models.UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id models.ID) error
	ToggleUser(ctx context.Context, id models.ID) (*models.User, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// FieldErrors maps form fields to problems. It matches models.ErrValidation.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid user: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Is(target error) bool { return target == models.ErrValidation }

// ServiceUserImpl provides the implementation for UserService.
type ServiceUserImpl struct {
	logger *zap.Logger
	dir    UserDirectory
}

// NewUserService creates a new user service instance.
func NewUserService(dir UserDirectory, logger *zap.Logger) *ServiceUserImpl {
	return &ServiceUserImpl{
		logger: logger,
		dir:    dir,
	}
}

// normalise trims the input and upper-cases the role.
func normalise(in models.UserInput) models.UserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = models.Role(strings.ToUpper(strings.TrimSpace(string(in.Role))))
	return in
}

func validate(in models.UserInput, creating bool) FieldErrors {
	errs := FieldErrors{}
	if in.Username == "" {
		errs["username"] = "Username is required"
	}
	if in.Email == "" {
		errs["email"] = "Email is required"
	}
	if creating && in.Password == "" {
		errs["password"] = "Password is required"
	}
	if !slices.Contains(models.AssignableRoles, in.Role) {
		errs["role"] = "Choose a role"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ListUsers lists every account, or only those with role when it is set.
func (s *ServiceUserImpl) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	l := s.logger.With(zap.String("method", "ListUsers"), zap.String("role", string(role)))
	l.Debug("Listing users")

	var (
		users []models.User
		err   error
	)
	if role != "" {
		users, err = s.dir.ListByRole(ctx, role)
	} else {
		users, err = s.dir.List(ctx)
	}
	if err != nil {
		l.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	slices.SortFunc(users, func(a, b models.User) int {
		return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
	})
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *ServiceUserImpl) GetUser(ctx context.Context, id models.ID) (*models.User, error) {
	l := s.logger.With(zap.String("method", "GetUser"), zap.String("userID", id.String()))
	l.Debug("Fetching user")

	u, err := s.dir.Get(ctx, id)
	if err != nil {
		l.Error("Failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return u, nil
}

// CreateUser validates the input and refuses usernames that are taken.
func (s *ServiceUserImpl) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	in = normalise(in)
	l := s.logger.With(zap.String("method", "CreateUser"), zap.String("username", in.Username))
	l.Debug("Creating user")

	if errs := validate(in, true); errs != nil {
		return nil, errs
	}
	exists, err := s.dir.UsernameExists(ctx, in.Username)
	if err != nil {
		l.Error("Failed to check username", zap.Error(err))
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, FieldErrors{"username": "Username is already taken"}
	}

	u, err := s.dir.Create(ctx, in)
	if err != nil {
		l.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	l.Info("User created successfully", zap.String("userID", u.ID.String()))
	return u, nil
}

// UpdateUser keeps the current password when the form leaves it blank. A
// rename onto a username held by another account is refused.
func (s *ServiceUserImpl) UpdateUser(ctx context.Context, id models.ID, in models.UserInput) (*models.User, error) {
	in = normalise(in)
	l := s.logger.With(zap.String("method", "UpdateUser"), zap.String("userID", id.String()))
	l.Debug("Updating user")

	if errs := validate(in, false); errs != nil {
		return nil, errs
	}
	owner, err := s.dir.GetByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		l.Error("Failed to check username", zap.Error(err))
		return nil, fmt.Errorf("error checking username: %w", err)
	case owner.ID != id:
		return nil, FieldErrors{"username": "Username is already taken"}
	}

	u, err := s.dir.Update(ctx, id, in)
	if err != nil {
		l.Error("Failed to update user", zap.Error(err))
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	l.Info("User updated successfully")
	return u, nil
}

// DeleteUser deletes a user.
func (s *ServiceUserImpl) DeleteUser(ctx context.Context, id models.ID) error {
	l := s.logger.With(zap.String("method", "DeleteUser"), zap.String("userID", id.String()))
	l.Debug("Deleting user")

	if err := s.dir.Delete(ctx, id); err != nil {
		l.Error("Failed to delete user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}
	l.Info("User deleted successfully")
	return nil
}

// ToggleUser flips the enabled flag.
func (s *ServiceUserImpl) ToggleUser(ctx context.Context, id models.ID) (*models.User, error) {
	l := s.logger.With(zap.String("method", "ToggleUser"), zap.String("userID", id.String()))
	l.Debug("Toggling user status")

	u, err := s.dir.ToggleStatus(ctx, id)
	if err != nil {
		l.Error("Failed to toggle user status", zap.Error(err))
		return nil, fmt.Errorf("error toggling user status: %w", err)
	}
	l.Info("User status toggled successfully", zap.Bool("enabled", u.Enabled))
	return u, nil
}

func (s *ServiceUserImpl) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}
	exists, err := s.dir.UsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return !exists, nil
}
