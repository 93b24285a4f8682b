package complaint

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/pkg/response"
)

// maxMediaBytes caps complaint media uploads at 32 MB
const maxMediaBytes = 32 << 20

// allowedMediaTypes maps accepted upload content types to media kinds
var allowedMediaTypes = map[string]MediaKind{
	"image/jpeg": MediaImage,
	"image/png":  MediaImage,
	"audio/mpeg": MediaAudio,
	"audio/wav":  MediaAudio,
	"video/mp4":  MediaVideo,
}

// Uploader stores media bytes and returns a public URL
type Uploader interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// Handler handles HTTP requests for complaint operations
type Handler struct {
	service  *Service
	uploader Uploader
}

// NewHandler creates a new complaint handler
func NewHandler(service *Service, uploader Uploader) *Handler {
	return &Handler{service: service, uploader: uploader}
}

// Routes returns the router for complaint endpoints. The recent-common feed
// and the stats websocket are public; everything else requires a token.
func (h *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/recent/common", h.ListRecentCommon)
	r.Get("/stats/ws", h.StatsFeed)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/", h.Submit)
		r.Get("/", h.List)
		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/employee/{code}", h.ListByEmployee)
		r.Get("/stats/user/{userID}", h.UserStats)
		r.Get("/trend/user/{userID}", h.Trend)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}/assign", h.Assign)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Put("/{id}/reject", h.Reject)
	})

	return r
}

// Submit handles POST /complaints
// @Summary      Submit a complaint
// @Description  Submit a new complaint as a customer, optionally with an image, audio or video attachment
// @Tags         complaints
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        user_id formData string true "Submitter user ID"
// @Param        title formData string true "Title"
// @Param        description formData string false "Description (required unless media is attached)"
// @Param        complaint_type formData string true "Category (common or private)"
// @Param        address formData string true "Address"
// @Param        media formData file false "Media attachment"
// @Success      201 {object} response.APIResponse{data=ComplaintResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /complaints [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMediaBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	submitterID, err := uuid.Parse(r.FormValue("user_id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	in := &SubmitInput{
		SubmitterID: submitterID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("complaint_type"),
		Address:     r.FormValue("address"),
		MediaType:   MediaText,
	}
	if in.Title == "" {
		response.BadRequest(w, "Title is required")
		return
	}

	file, header, err := r.FormFile("media")
	if err == nil {
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		kind, ok := allowedMediaTypes[contentType]
		if !ok {
			response.BadRequest(w, "Unsupported file type")
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxMediaBytes))
		if err != nil {
			response.InternalError(w, "Failed to read media file")
			return
		}

		storagePath := "complaints/" + uuid.NewString() + filepath.Ext(header.Filename)
		url, err := h.uploader.Upload(r.Context(), storagePath, contentType, data)
		if err != nil {
			response.InternalError(w, "Failed to upload media")
			return
		}

		in.MediaType = kind
		in.MediaURL = &url
	}

	c, err := h.service.Submit(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubmitterNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotCustomer):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrContentRequired), errors.Is(err, ErrInvalidCategory):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to submit complaint")
		}
		return
	}

	response.JSON(w, http.StatusCreated, c.ToResponse())
}

// List handles GET /complaints
// @Summary      List all complaints
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]ComplaintResponse}
// @Router       /complaints [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.service.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list complaints")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(complaints))
}

// GetByID handles GET /complaints/{id}
// @Summary      Get a complaint
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Complaint ID"
// @Success      200 {object} response.APIResponse{data=ComplaintResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /complaints/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid complaint ID")
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrComplaintNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get complaint")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// ListByUser handles GET /complaints/user/{userID}
// @Summary      List a user's complaints
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userID path string true "User ID"
// @Success      200 {object} response.APIResponse{data=[]ComplaintResponse}
// @Router       /complaints/user/{userID} [get]
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	complaints, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list complaints")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(complaints))
}

// ListByEmployee handles GET /complaints/employee/{code}
// @Summary      List an employee's assigned complaints
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Employee code"
// @Success      200 {object} response.APIResponse{data=[]ComplaintResponse}
// @Router       /complaints/employee/{code} [get]
func (h *Handler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	complaints, err := h.service.ListByEmployee(r.Context(), code)
	if err != nil {
		response.InternalError(w, "Failed to list complaints")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(complaints))
}

// Assign handles PUT /complaints/{id}/assign
// @Summary      Assign a complaint to an employee
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Complaint ID"
// @Param        request body AssignRequest true "Assignment request"
// @Success      200 {object} response.APIResponse{data=ComplaintResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /complaints/{id}/assign [put]
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid complaint ID")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeCode == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	c, err := h.service.Assign(r.Context(), id, req.EmployeeCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrComplaintNotFound), errors.Is(err, ErrEmployeeNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrComplaintClosed), errors.Is(err, ErrInvalidTransition):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to assign complaint")
		}
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// UpdateStatus handles PATCH /complaints/{id}/status
// @Summary      Update a complaint's status
// @Description  Update the status of a complaint as its assigned employee, optionally leaving notes
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Complaint ID"
// @Param        request body UpdateStatusRequest true "Status update request"
// @Success      200 {object} response.APIResponse{data=ComplaintResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /complaints/{id}/status [patch]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid complaint ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeCode == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	c, err := h.service.UpdateStatus(r.Context(), id, req.EmployeeCode, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrComplaintNotFound), errors.Is(err, ErrEmployeeNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAssignee):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrComplaintClosed), errors.Is(err, ErrInvalidTransition):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to update complaint")
		}
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// Reject handles PUT /complaints/{id}/reject
// @Summary      Reject a complaint
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Complaint ID"
// @Success      200 {object} response.APIResponse{data=ComplaintResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /complaints/{id}/reject [put]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid complaint ID")
		return
	}

	c, err := h.service.Reject(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrComplaintNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to reject complaint")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// UserStats handles GET /complaints/stats/user/{userID}
// @Summary      Per-user complaint statistics
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userID path string true "User ID"
// @Success      200 {object} response.APIResponse{data=UserStats}
// @Router       /complaints/stats/user/{userID} [get]
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	stats, err := h.service.UserStats(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to get statistics")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// Trend handles GET /complaints/trend/user/{userID}
// @Summary      Per-user 7-day submission trend
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userID path string true "User ID"
// @Success      200 {object} response.APIResponse{data=[]TrendPoint}
// @Router       /complaints/trend/user/{userID} [get]
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	trend, err := h.service.Trend(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to get trend")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID.String(),
		"trend":   trend,
	})
}

// ListRecentCommon handles GET /complaints/recent/common
// @Summary      Recent common complaints
// @Tags         complaints
// @Produce      json
// @Param        limit query int false "Maximum results" default(5)
// @Success      200 {object} response.APIResponse{data=[]ComplaintResponse}
// @Router       /complaints/recent/common [get]
func (h *Handler) ListRecentCommon(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	complaints, err := h.service.ListRecentCommon(r.Context(), limit)
	if err != nil {
		response.InternalError(w, "Failed to list complaints")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(complaints))
}

func toResponses(complaints []*Complaint) []*ComplaintResponse {
	responses := make([]*ComplaintResponse, len(complaints))
	for i, c := range complaints {
		responses[i] = c.ToResponse()
	}
	return responses
}
