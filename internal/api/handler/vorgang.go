package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/api/response"
	"github.com/exportdesk/exportdesk/internal/vorgang"
	"github.com/exportdesk/exportdesk/pkg/filename"
)

// maxUploadSize caps a single uploaded document at 50 MB.
const maxUploadSize = 50 << 20

// VorgangHandler handles export case endpoints.
type VorgangHandler struct {
	service *vorgang.Service
}

// NewVorgangHandler creates a new VorgangHandler.
func NewVorgangHandler(service *vorgang.Service) *VorgangHandler {
	return &VorgangHandler{service: service}
}

// ListVorgaenge handles GET /api/vorgaenge - list cases, newest first.
func (h *VorgangHandler) ListVorgaenge(w http.ResponseWriter, r *http.Request) {
	var opts vorgang.ListOptions

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := vorgang.ParseStatus(s)
		if err != nil {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		opts.Status = &status
	}
	opts.Mandant = r.URL.Query().Get("mandant")

	items, err := h.service.List(r.Context(), opts)
	if err != nil {
		response.InternalError(w, r, "failed to list cases")
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

// GetVorgang handles GET /api/vorgaenge/{vorgangId} - case with files
// and uploads.
func (h *VorgangHandler) GetVorgang(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vorgangId")

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "failed to load case")
		return
	}
	response.JSON(w, r, http.StatusOK, detail)
}

// CreateVorgang handles POST /api/vorgaenge. Accepts a plain JSON body,
// or multipart form data with a `vorgang` JSON part and an optional
// `file` part carrying the client-generated customs declaration PDF.
func (h *VorgangHandler) CreateVorgang(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createFromMultipart(w, r)
		return
	}

	var input models.VorgangCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	v, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err, "failed to create case")
		return
	}
	response.Created(w, r, fmt.Sprintf("/api/vorgaenge/%s", v.ID), v)
}

func (h *VorgangHandler) createFromMultipart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, r, "invalid multipart body", nil)
		return
	}

	var input models.VorgangCreateRequest
	if err := json.Unmarshal([]byte(r.FormValue("vorgang")), &input); err != nil {
		response.BadRequest(w, r, "vorgang part must be a JSON object", nil)
		return
	}

	v, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err, "failed to create case")
		return
	}

	// The optional file part carries the generated declaration PDF.
	if file, _, ferr := r.FormFile("file"); ferr == nil {
		content, rerr := readUpload(file)
		if rerr != nil {
			response.BadRequest(w, r, rerr.Error(), nil)
			return
		}
		if _, uerr := h.service.Upload(r.Context(), v.ID, filename.KindAtlas, content); uerr != nil {
			h.writeError(w, r, uerr, "failed to store declaration file")
			return
		}
	}

	detail, err := h.service.Get(r.Context(), v.ID)
	if err != nil {
		h.writeError(w, r, err, "failed to load case")
		return
	}
	response.Created(w, r, fmt.Sprintf("/api/vorgaenge/%s", v.ID), detail)
}

// UpdateVorgang handles PATCH /api/vorgaenge/{vorgangId} - partial
// update.
func (h *VorgangHandler) UpdateVorgang(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vorgangId")

	var input models.VorgangUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	v, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		h.writeError(w, r, err, "failed to update case")
		return
	}
	response.JSON(w, r, http.StatusOK, v)
}

// SetStatus handles POST /api/vorgaenge/{vorgangId}/status - explicit
// status transition, or the click-through toggle when status is empty.
func (h *VorgangHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vorgangId")

	var input models.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	v, err := h.service.SetStatus(r.Context(), id, input.Status)
	if err != nil {
		h.writeError(w, r, err, "failed to change status")
		return
	}
	response.JSON(w, r, http.StatusOK, v)
}

// DeleteVorgang handles DELETE /api/vorgaenge/{vorgangId}.
func (h *VorgangHandler) DeleteVorgang(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vorgangId")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "failed to delete case")
		return
	}
	response.NoContent(w, r)
}

// UploadDocument handles POST /api/vorgaenge/{vorgangId}/uploads -
// multipart upload with a `file` part and a `label` field naming the
// document kind.
func (h *VorgangHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vorgangId")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, r, "invalid multipart body", nil)
		return
	}

	kind, err := vorgang.ParseLabel(r.FormValue("label"))
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, r, "file part is required", nil)
		return
	}
	content, err := readUpload(file)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	up, err := h.service.Upload(r.Context(), id, kind, content)
	if err != nil {
		h.writeError(w, r, err, "failed to store document")
		return
	}
	response.Created(w, r, fmt.Sprintf("/api/vorgaenge/%s", id), up)
}

// readUpload drains an uploaded file part with the size cap applied.
func readUpload(file multipart.File) ([]byte, error) {
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file part")
	}
	if len(content) > maxUploadSize {
		return nil, fmt.Errorf("file exceeds the %d MB limit", maxUploadSize>>20)
	}
	return content, nil
}

// writeError maps service errors to problem responses.
func (h *VorgangHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *vorgang.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation error", verr.Errors)
	case errors.Is(err, vorgang.ErrVorgangNotFound), errors.Is(err, vorgang.ErrUploadNotFound):
		response.NotFound(w, r, "case not found")
	case errors.Is(err, vorgang.ErrInvalidTransition):
		response.Conflict(w, r, err.Error())
	case errors.Is(err, vorgang.ErrUnknownLabel):
		response.BadRequest(w, r, err.Error(), nil)
	default:
		response.InternalError(w, r, fallback)
	}
}
