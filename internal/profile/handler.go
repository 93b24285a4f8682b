package profile

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/pkg/response"
)

const maxImageBytes = 8 << 20

// allowedImageExts whitelists profile image file extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Handler handles HTTP requests for user profiles
type Handler struct {
	service   *Service
	uploadDir string
}

// NewHandler creates a new profile handler. Images are written to uploadDir
// and served statically under /uploads.
func NewHandler(service *Service, uploadDir string) *Handler {
	return &Handler{service: service, uploadDir: uploadDir}
}

// Routes returns the router for profile endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{userID}", h.Get)
	r.Put("/{userID}", h.Upsert)

	return r
}

// Get handles GET /profile/{userID}
// @Summary      Get a user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userID path string true "User ID"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /profile/{userID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	p, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, p)
}

// Upsert handles PUT /profile/{userID}
// @Summary      Create or update a user's profile
// @Description  Upserts residence and bio details, optionally updating account fields and the profile image
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        userID path string true "User ID"
// @Param        fullname formData string false "Full name"
// @Param        email formData string false "Email"
// @Param        phone formData string false "Phone"
// @Param        province formData string false "Province"
// @Param        district formData string false "District"
// @Param        sector formData string false "Sector"
// @Param        cell formData string false "Cell"
// @Param        village formData string false "Village"
// @Param        about formData string false "About"
// @Param        image formData file false "Profile image"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /profile/{userID} [put]
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	in := &UpsertInput{
		UserID:   userID,
		FullName: formValue(r, "fullname"),
		Email:    formValue(r, "email"),
		Phone:    formValue(r, "phone"),
		Province: r.FormValue("province"),
		District: r.FormValue("district"),
		Sector:   r.FormValue("sector"),
		Cell:     r.FormValue("cell"),
		Village:  r.FormValue("village"),
		About:    formValue(r, "about"),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		url, err := h.saveImage(file, header)
		if err != nil {
			if errors.Is(err, errBadExtension) {
				response.BadRequest(w, "Unsupported image type")
				return
			}
			response.InternalError(w, "Failed to save image")
			return
		}
		in.Image = &url
	}

	p, err := h.service.Upsert(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, p)
}

var errBadExtension = errors.New("unsupported image extension")

func (h *Handler) saveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", errBadExtension
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxImageBytes)); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// formValue returns a pointer to the field's value, or nil when absent
func formValue(r *http.Request, key string) *string {
	if vals, ok := r.MultipartForm.Value[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}
