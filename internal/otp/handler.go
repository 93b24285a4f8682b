package otp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rossahq/complaintdesk/pkg/response"
)

// SendRequest represents the request body for requesting a code
type SendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyRequest represents the request body for verifying a code
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// Handler handles HTTP requests for email verification codes
type Handler struct {
	service *Service
}

// NewHandler creates a new OTP handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for OTP endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/send", h.Send)
	r.Post("/verify", h.Verify)

	return r
}

// Send handles POST /auth/otp/send
// @Summary      Send a verification code
// @Description  Generate a one-time verification code and email it to the address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SendRequest true "Recipient"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /auth/otp/send [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Send(r.Context(), req.Email); err != nil {
		response.InternalError(w, "Failed to send verification code")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

// Verify handles POST /auth/otp/verify
// @Summary      Verify a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest true "Email and code"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /auth/otp/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Verify(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrCodeExpired), errors.Is(err, ErrCodeMismatch):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to verify code")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}
