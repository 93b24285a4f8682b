package complaint

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the visibility class of a complaint
type Category string

const (
	CategoryCommon  Category = "common"
	CategoryPrivate Category = "private"
)

// Valid reports whether the category is recognized
func (c Category) Valid() bool {
	return c == CategoryCommon || c == CategoryPrivate
}

// MediaKind represents the type of media attached to a complaint
type MediaKind string

const (
	MediaText  MediaKind = "text"
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// Complaint represents a customer-submitted issue report tracked through
// the status lifecycle
type Complaint struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"complaint_type"`
	Address     string    `json:"address"`
	Status      Status    `json:"status"`
	AssignedTo  *string   `json:"assigned_to,omitempty"` // employee code
	Notes       *string   `json:"notes,omitempty"`
	MediaType   MediaKind `json:"media_type"`
	MediaURL    *string   `json:"media_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated from JOIN
	UserFullName string `json:"user_fullname,omitempty"`
}

// UserStats summarizes one user's complaints
type UserStats struct {
	UserID     string `json:"user_id"`
	Total      int    `json:"total_complaints"`
	Pending    int    `json:"pending"`
	Assigned   int    `json:"assigned"`
	InProgress int    `json:"in_progress"`
	Done       int    `json:"done"`
	Rejected   int    `json:"rejected"`
	Common     int    `json:"common"`
	Private    int    `json:"private"`
	Recent     int    `json:"recent"` // created in the last 7 days
}

// SystemStats summarizes all complaints in the system
type SystemStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Assigned   int `json:"assigned"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Rejected   int `json:"rejected"`
	Common     int `json:"common"`
	Private    int `json:"private"`
	Recent     int `json:"recent"`
}

// TrendPoint is one day of a user's submission trend
type TrendPoint struct {
	Day   string `json:"day"` // abbreviated weekday name
	Count int    `json:"count"`
}
