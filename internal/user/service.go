package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/internal/auth"
)

// Common errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyInUse    = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("incorrect password")
	ErrPasswordRequired     = errors.New("password is required for customers")
	ErrEmployeeCodeRequired = errors.New("employee code is required for employees and admins")
	ErrInvalidRole          = errors.New("invalid role")
	ErrNotEmployee          = errors.New("only employees can have an employee code")
	ErrNoPasswordSet        = errors.New("user has no password set")
)

// Store is the persistence surface the service depends on
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListEmployees(ctx context.Context) ([]*EmployeeResponse, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)
	UpdateEmployeeCode(ctx context.Context, id uuid.UUID, code string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// Service handles user business logic
type Service struct {
	store  Store
	tokens *auth.TokenIssuer
}

// NewService creates a new user service
func NewService(store Store, tokens *auth.TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a new user account. Customers must supply a password;
// employees and admins must supply an employee code.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	role := Role(req.Role)
	if req.Role == "" {
		role = RoleCustomer
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	u := &User{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Role:     role,
	}

	if role == RoleCustomer {
		if req.Password == nil || *req.Password == "" {
			return nil, ErrPasswordRequired
		}
	} else {
		if req.EmployeeCode == nil || *req.EmployeeCode == "" {
			return nil, ErrEmployeeCodeRequired
		}
		u.EmployeeCode = req.EmployeeCode
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}

	return s.store.Create(ctx, u)
}

// Login authenticates a user by email or employee code and issues an access
// token. Credentials stored under a legacy hash scheme are transparently
// rehashed to the current one.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	u, err := s.store.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrUserNotFound
	}

	if u.PasswordHash == nil || !auth.VerifyPassword(req.Password, *u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if auth.NeedsRehash(*u.PasswordHash) {
		if hash, err := auth.HashPassword(req.Password); err == nil {
			if err := s.store.UpdatePasswordHash(ctx, u.ID, hash); err == nil {
				u.PasswordHash = &hash
			}
		}
	}

	token, err := s.tokens.Issue(s.loginIdentifier(u), string(u.Role))
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// loginIdentifier returns the token subject for a user: email for customers
// and admins, employee code for employees
func (s *Service) loginIdentifier(u *User) string {
	if u.Role == RoleEmployee && u.EmployeeCode != nil {
		return *u.EmployeeCode
	}
	return u.Email
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetBySubject resolves an authenticated token subject back to a user
func (s *Service) GetBySubject(ctx context.Context, subject string) (*User, error) {
	u, err := s.store.GetByIdentifier(ctx, subject)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List retrieves all users
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// ListEmployees retrieves all employees with their workload
func (s *Service) ListEmployees(ctx context.Context) ([]*EmployeeResponse, error) {
	return s.store.ListEmployees(ctx)
}

// UpdateRole changes a user's role
func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*User, error) {
	r := Role(strings.ToLower(role))
	if !r.Valid() {
		return nil, ErrInvalidRole
	}

	u, err := s.store.UpdateRole(ctx, id, r)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateEmployeeCode changes an employee's code
func (s *Service) UpdateEmployeeCode(ctx context.Context, id uuid.UUID, code string) (*User, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}
	if existing.Role != RoleEmployee {
		return nil, ErrNotEmployee
	}

	return s.store.UpdateEmployeeCode(ctx, id, code)
}

// ChangePassword verifies the old password and stores a new hash
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, req *ChangePasswordRequest) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if u.PasswordHash == nil {
		return ErrNoPasswordSet
	}
	if !auth.VerifyPassword(req.OldPassword, *u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePasswordHash(ctx, id, hash)
}
