package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind represents the lifecycle event a notification reports
type Kind string

const (
	KindNewComplaint Kind = "new_complaint"
	KindSubmitted    Kind = "submitted"
	KindAssigned     Kind = "assigned"
	KindDone         Kind = "done"
	KindRejected     Kind = "rejected"
)

// Notification represents a persisted notification. Notifications are
// created exclusively by the complaint lifecycle engine; the only later
// mutation is marking them read.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	SenderID    *uuid.UUID `json:"sender_id,omitempty"` // nil = system-generated
	ComplaintID *uuid.UUID `json:"complaint_id,omitempty"`
	Kind        Kind       `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Draft is a notification that has been computed but not yet persisted.
// The complaint store writes drafts in the same transaction as the status
// change they result from.
type Draft struct {
	UserID      uuid.UUID
	SenderID    *uuid.UUID
	ComplaintID *uuid.UUID
	Kind        Kind
	Title       string
	Message     string
}
