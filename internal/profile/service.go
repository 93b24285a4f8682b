package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/internal/user"
)

// Common errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Store is the persistence surface the service depends on
type Store interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	Upsert(ctx context.Context, in *UpsertInput) (*ProfileResponse, error)
}

// Directory resolves user accounts
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service handles profile business logic
type Service struct {
	store     Store
	directory Directory
}

// NewService creates a new profile service
func NewService(store Store, directory Directory) *Service {
	return &Service{store: store, directory: directory}
}

// GetByUserID retrieves a user's profile
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// Upsert creates the user's profile on first write and updates it after
func (s *Service) Upsert(ctx context.Context, in *UpsertInput) (*ProfileResponse, error) {
	u, err := s.directory.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return s.store.Upsert(ctx, in)
}
