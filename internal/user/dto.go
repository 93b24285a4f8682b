package user

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	FullName     string  `json:"fullname" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     *string `json:"password,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Role         string  `json:"role"`
}

// LoginRequest represents the request body for logging in.
// Identifier accepts either an email address or an employee code.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        *UserResponse `json:"user"`
}

// UpdateRoleRequest represents the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UpdateEmployeeCodeRequest represents the request body for changing an employee code
type UpdateEmployeeCodeRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required"`
}

// ChangePasswordRequest represents the request body for changing a password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullname"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// EmployeeResponse represents an employee with their current workload
type EmployeeResponse struct {
	ID            string  `json:"id"`
	FullName      string  `json:"fullname"`
	Email         string  `json:"email"`
	EmployeeCode  *string `json:"employee_code"`
	AssignedCount int     `json:"assigned_complaints_count"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		Phone:        u.Phone,
		Email:        u.Email,
		Role:         string(u.Role),
		EmployeeCode: u.EmployeeCode,
		CreatedAt:    u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
