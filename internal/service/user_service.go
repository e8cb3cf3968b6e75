package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"studio-site/internal/auth"
	"studio-site/internal/data"
	"studio-site/internal/logger"
	"studio-site/internal/validate"
)

var (
	// ErrInvalidCredentials is returned for an unknown email, a wrong
	// password or a disabled account alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrLastAdmin is returned when a change would leave no active admin.
	ErrLastAdmin = errors.New("at least one active admin is required")
)

// UserRepository defines the database operations on back-office users.
type UserRepository interface {
	List(ctx context.Context) ([]*data.User, error)
	GetByID(ctx context.Context, id int64) (*data.User, error)
	GetByEmail(ctx context.Context, email string) (*data.User, error)
	Create(ctx context.Context, user *data.User) error
	Update(ctx context.Context, user *data.User) error
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	CountActiveAdmins(ctx context.Context) (int, error)
}

// UserService manages back-office accounts and sign-in.
type UserService struct {
	users UserRepository
	log   logger.Logger
	now   func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository, log logger.Logger) *UserService {
	return &UserService{users: users, log: log, now: time.Now}
}

// Authenticate checks an email and password against the active accounts.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*data.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, data.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	s.touch(ctx, user)
	return user, nil
}

// FindActiveByEmail returns the active account for an identity asserted
// by the single sign-on provider.
func (s *UserService) FindActiveByEmail(ctx context.Context, email string) (*data.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, data.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	s.touch(ctx, user)
	return user, nil
}

func (s *UserService) touch(ctx context.Context, user *data.User) {
	at := s.now().UTC()
	if err := s.users.TouchLogin(ctx, user.ID, at); err != nil {
		s.log.Error(err, "Failed to record last login")
		return
	}
	user.LastLoginAt = &at
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]*data.User, error) {
	return s.users.List(ctx)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (*data.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create validates and stores a new user. A password is required.
func (s *UserService) Create(ctx context.Context, in UserInput) (*data.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	errs := validate.Errors{}
	if err := validate.Struct(in); err != nil {
		verrs, ok := validate.As(err)
		if !ok {
			return nil, err
		}
		errs = verrs
	}
	if in.Password == "" {
		errs.Add("password", "Ce champ est obligatoire.")
	}
	if !errs.Has("email") {
		if err := s.checkEmail(ctx, in.Email, 0); err != nil {
			verrs, ok := validate.As(err)
			if !ok {
				return nil, err
			}
			errs.Add("email", verrs.Get("email"))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &data.User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: hash,
		IsActive:     in.IsActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.With(map[string]interface{}{"user_id": user.ID, "role": user.Role}).Info("User created")
	return user, nil
}

// Update validates and saves a user. An empty password keeps the current
// one. Demoting or disabling the last active admin is refused.
func (s *UserService) Update(ctx context.Context, id int64, in UserInput) (*data.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, in.Email, id); err != nil {
		return nil, err
	}

	losesAdmin := user.IsAdmin() && user.IsActive && (in.Role != data.RoleAdmin || !in.IsActive)
	if losesAdmin {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	user.Email = in.Email
	user.Name = in.Name
	user.Role = in.Role
	user.IsActive = in.IsActive
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user, unless it is the last active admin.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() && user.IsActive {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) checkEmail(ctx context.Context, email string, id int64) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return notTaken(err, "email")
	}
	return takenBy(existing.ID, id, "email")
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context) error {
	n, err := s.users.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}
