package profile

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile represents a user's residence and bio details
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Province     string    `json:"province"`
	District     string    `json:"district"`
	Sector       string    `json:"sector"`
	Cell         string    `json:"cell"`
	Village      string    `json:"village"`
	About        *string   `json:"about,omitempty"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileResponse is a profile joined with its user's account details
type ProfileResponse struct {
	UserProfile
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UpsertInput carries the fields a profile update may change. Nil account
// fields leave the user record untouched.
type UpsertInput struct {
	UserID   uuid.UUID
	FullName *string
	Email    *string
	Phone    *string
	Province string
	District string
	Sector   string
	Cell     string
	Village  string
	About    *string
	Image    *string
}
