package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/pkg/middleware"
	"github.com/rossahq/complaintdesk/pkg/response"
)

// Handler handles HTTP requests for user and authentication operations
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AuthRoutes returns the router for authentication endpoints
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	return r
}

// SessionRoutes returns the router for endpoints that require an authenticated user
func (h *Handler) SessionRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Post("/change-password", h.ChangePassword)

	return r
}

// Routes returns the router for user management endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/employees", h.ListEmployees)

	// role and code changes are admin-only
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole("admin"))

		r.Put("/{id}/role", h.UpdateRole)
		r.Put("/{id}/employee-code", h.UpdateEmployeeCode)
	})

	return r
}

// Register handles POST /auth/register
// @Summary      Register a new user
// @Description  Register a customer (password required) or an employee/admin (employee code required)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyInUse):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrEmployeeCodeRequired),
			errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to register user")
		}
		return
	}

	response.JSON(w, http.StatusCreated, u.ToResponse())
}

// Login handles POST /auth/login
// @Summary      Log in
// @Description  Authenticate by email or employee code and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=LoginResponse}
// @Failure      401 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Identifier == "" {
		response.BadRequest(w, "Email or employee code is required")
		return
	}

	u, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		default:
			response.InternalError(w, "Failed to log in")
		}
		return
	}

	response.JSON(w, http.StatusOK, &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        u.ToResponse(),
	})
}

// Me handles GET /auth/me
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	u, err := h.service.GetBySubject(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to load user")
		return
	}

	response.JSON(w, http.StatusOK, u.ToResponse())
}

// ChangePassword handles POST /auth/change-password
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Password change request"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	u, err := h.service.GetBySubject(r.Context(), claims.Subject)
	if err != nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), u.ID, &req); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.BadRequest(w, "Incorrect old password")
		case errors.Is(err, ErrNoPasswordSet):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to change password")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// List handles GET /users
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list users")
		return
	}

	userResponses := make([]*UserResponse, len(users))
	for i, u := range users {
		userResponses[i] = u.ToResponse()
	}

	response.JSON(w, http.StatusOK, userResponses)
}

// ListEmployees handles GET /users/employees
// @Summary      List employees
// @Description  List all employees with their assigned complaint counts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]EmployeeResponse}
// @Router       /users/employees [get]
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list employees")
		return
	}

	response.JSON(w, http.StatusOK, employees)
}

// UpdateRole handles PUT /users/{id}/role
// @Summary      Update a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateRoleRequest true "Role update request"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/role [put]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to update role")
		}
		return
	}

	response.JSON(w, http.StatusOK, u.ToResponse())
}

// UpdateEmployeeCode handles PUT /users/{id}/employee-code
// @Summary      Update an employee's code
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateEmployeeCodeRequest true "Employee code update request"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id}/employee-code [put]
func (h *Handler) UpdateEmployeeCode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateEmployeeCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeCode == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.UpdateEmployeeCode(r.Context(), id, req.EmployeeCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotEmployee):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to update employee code")
		}
		return
	}

	response.JSON(w, http.StatusOK, u.ToResponse())
}
