package complaint

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/internal/notification"
	"github.com/rossahq/complaintdesk/internal/user"
)

// Common errors
var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrSubmitterNotFound = errors.New("user not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNotCustomer       = errors.New("only customers can submit complaints")
	ErrContentRequired   = errors.New("you must provide either a description or a media file")
	ErrInvalidCategory   = errors.New("invalid complaint type")
	ErrInvalidStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("status change not permitted from current state")
	ErrComplaintClosed   = errors.New("complaint is closed and can no longer be worked on")
	ErrNotAssignee       = errors.New("you are not assigned to this complaint")
)

// Store is the persistence surface the lifecycle engine depends on.
// Create and Transition must persist the complaint mutation and its
// notification drafts as a single atomic unit.
type Store interface {
	Create(ctx context.Context, c *Complaint, drafts []*notification.Draft) (*Complaint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	Transition(ctx context.Context, id uuid.UUID, mutate func(c *Complaint) ([]*notification.Draft, error)) (*Complaint, error)
	ListAll(ctx context.Context) ([]*Complaint, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Complaint, error)
	ListByEmployee(ctx context.Context, employeeCode string) ([]*Complaint, error)
	ListRecentCommon(ctx context.Context, limit int) ([]*Complaint, error)
	UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	SystemStats(ctx context.Context) (*SystemStats, error)
	Trend(ctx context.Context, userID uuid.UUID) ([]TrendPoint, error)
}

// Directory resolves the actors a lifecycle transition involves
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmployeeCode(ctx context.Context, code string) (*user.User, error)
	ListAdmins(ctx context.Context) ([]*user.User, error)
}

// Service is the complaint lifecycle state machine. It validates actor
// authorization and state preconditions, applies the transition, and fans
// notifications out to every interested party in the same transaction.
type Service struct {
	store     Store
	directory Directory
}

// NewService creates a new complaint service
func NewService(store Store, directory Directory) *Service {
	return &Service{store: store, directory: directory}
}

// Submit creates a new complaint in the pending state. The submitter is
// notified, and so is every admin; when no admins exist that step is
// skipped silently.
func (s *Service) Submit(ctx context.Context, in *SubmitInput) (*Complaint, error) {
	submitter, err := s.directory.GetByID(ctx, in.SubmitterID)
	if err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, ErrSubmitterNotFound
	}
	if submitter.Role != user.RoleCustomer {
		return nil, ErrNotCustomer
	}

	category := Category(strings.ToLower(in.Category))
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	hasMedia := in.MediaType != "" && in.MediaType != MediaText
	if strings.TrimSpace(in.Description) == "" && !hasMedia {
		return nil, ErrContentRequired
	}

	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = MediaText
	}

	c := &Complaint{
		ID:          uuid.New(),
		UserID:      submitter.ID,
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Address:     in.Address,
		Status:      StatusPending,
		MediaType:   mediaType,
		MediaURL:    in.MediaURL,
	}

	admins, err := s.directory.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}

	drafts := ComputeNotifications(Event{
		Kind:      notification.KindSubmitted,
		Complaint: c,
		Actor:     submitter,
		Submitter: submitter,
		Admins:    admins,
	})

	return s.store.Create(ctx, c, drafts)
}

// Assign moves a complaint to the assigned state and records the assignee.
// The assignee and the submitter are both notified.
func (s *Service) Assign(ctx context.Context, complaintID uuid.UUID, employeeCode string) (*Complaint, error) {
	employee, err := s.directory.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	current, err := s.store.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrComplaintNotFound
	}

	submitter, err := s.directory.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, ErrSubmitterNotFound
	}

	return s.store.Transition(ctx, complaintID, func(c *Complaint) ([]*notification.Draft, error) {
		if c.Status.Terminal() {
			return nil, ErrComplaintClosed
		}
		if !c.Status.CanTransitionTo(StatusAssigned) {
			return nil, ErrInvalidTransition
		}

		c.Status = StatusAssigned
		code := employeeCode
		c.AssignedTo = &code

		return ComputeNotifications(Event{
			Kind:      notification.KindAssigned,
			Complaint: c,
			Submitter: submitter,
			Assignee:  employee,
		}), nil
	})
}

// UpdateStatus applies a status change requested by the assigned employee.
// Marking a complaint done notifies the submitter and every admin.
func (s *Service) UpdateStatus(ctx context.Context, complaintID uuid.UUID, employeeCode, newStatus string, notes *string) (*Complaint, error) {
	next, ok := ParseStatus(newStatus)
	if !ok || next == StatusRejected {
		// Rejection has its own operation; it is not an employee status update.
		return nil, ErrInvalidStatus
	}

	employee, err := s.directory.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	current, err := s.store.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrComplaintNotFound
	}

	submitter, err := s.directory.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, ErrSubmitterNotFound
	}

	admins, err := s.directory.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}

	return s.store.Transition(ctx, complaintID, func(c *Complaint) ([]*notification.Draft, error) {
		if c.AssignedTo == nil || *c.AssignedTo != employeeCode {
			return nil, ErrNotAssignee
		}
		if c.Status.Terminal() {
			return nil, ErrComplaintClosed
		}
		if !c.Status.CanTransitionTo(next) {
			return nil, ErrInvalidTransition
		}

		c.Status = next
		if notes != nil {
			c.Notes = notes
		}

		if next != StatusDone {
			return nil, nil
		}

		return ComputeNotifications(Event{
			Kind:      notification.KindDone,
			Complaint: c,
			Actor:     employee,
			Submitter: submitter,
			Admins:    admins,
		}), nil
	})
}

// Reject marks a complaint rejected regardless of its prior status and
// notifies the submitter. Rejecting an already closed complaint is not an
// error; each call produces exactly one rejected notification.
func (s *Service) Reject(ctx context.Context, complaintID uuid.UUID) (*Complaint, error) {
	current, err := s.store.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrComplaintNotFound
	}

	submitter, err := s.directory.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, ErrSubmitterNotFound
	}

	return s.store.Transition(ctx, complaintID, func(c *Complaint) ([]*notification.Draft, error) {
		c.Status = StatusRejected

		return ComputeNotifications(Event{
			Kind:      notification.KindRejected,
			Complaint: c,
			Submitter: submitter,
		}), nil
	})
}

// GetByID retrieves a complaint by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrComplaintNotFound
	}
	return c, nil
}

// ListAll retrieves every complaint in the system
func (s *Service) ListAll(ctx context.Context) ([]*Complaint, error) {
	return s.store.ListAll(ctx)
}

// ListByUser retrieves all complaints submitted by a user
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Complaint, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListByEmployee retrieves all complaints assigned to an employee code
func (s *Service) ListByEmployee(ctx context.Context, employeeCode string) ([]*Complaint, error) {
	return s.store.ListByEmployee(ctx, employeeCode)
}

// ListRecentCommon retrieves the most recent common complaints
func (s *Service) ListRecentCommon(ctx context.Context, limit int) ([]*Complaint, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}
	return s.store.ListRecentCommon(ctx, limit)
}

// UserStats aggregates complaint counts for one user
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	return s.store.UserStats(ctx, userID)
}

// SystemStats aggregates complaint counts across the whole system
func (s *Service) SystemStats(ctx context.Context) (*SystemStats, error) {
	return s.store.SystemStats(ctx)
}

// Trend returns a user's complaint counts for the last 7 days
func (s *Service) Trend(ctx context.Context, userID uuid.UUID) ([]TrendPoint, error) {
	return s.store.Trend(ctx, userID)
}
