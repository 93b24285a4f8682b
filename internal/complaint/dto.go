package complaint

import "github.com/google/uuid"

// SubmitInput carries a validated submission into the lifecycle engine.
// Media, when present, has already been uploaded; the engine receives the
// resolved (kind, url) pair.
type SubmitInput struct {
	SubmitterID uuid.UUID
	Title       string
	Description string
	Category    string
	Address     string
	MediaType   MediaKind
	MediaURL    *string
}

// AssignRequest represents the request body for assigning a complaint
type AssignRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required"`
}

// UpdateStatusRequest represents the request body for updating a complaint's status
type UpdateStatusRequest struct {
	EmployeeCode string  `json:"employee_code" validate:"required"`
	Status       string  `json:"status" validate:"required"`
	Notes        *string `json:"notes,omitempty"`
}

// ComplaintResponse represents the response for a single complaint
type ComplaintResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	UserFullName string  `json:"user_fullname,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"complaint_type"`
	Address      string  `json:"address"`
	Status       string  `json:"status"`
	AssignedTo   *string `json:"assigned_to,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	MediaType    string  `json:"media_type"`
	MediaURL     *string `json:"media_url,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ToResponse converts a Complaint model to a ComplaintResponse DTO
func (c *Complaint) ToResponse() *ComplaintResponse {
	return &ComplaintResponse{
		ID:           c.ID.String(),
		UserID:       c.UserID.String(),
		UserFullName: c.UserFullName,
		Title:        c.Title,
		Description:  c.Description,
		Category:     string(c.Category),
		Address:      c.Address,
		Status:       string(c.Status),
		AssignedTo:   c.AssignedTo,
		Notes:        c.Notes,
		MediaType:    string(c.MediaType),
		MediaURL:     c.MediaURL,
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
