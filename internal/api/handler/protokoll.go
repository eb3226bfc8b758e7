package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/api/response"
	"github.com/exportdesk/exportdesk/internal/protokoll"
)

// ProtokollHandler handles changelog endpoints.
type ProtokollHandler struct {
	service *protokoll.Service
}

// NewProtokollHandler creates a new ProtokollHandler.
func NewProtokollHandler(service *protokoll.Service) *ProtokollHandler {
	return &ProtokollHandler{service: service}
}

// ListEintraege handles GET /api/protokoll.
func (h *ProtokollHandler) ListEintraege(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list changelog entries")
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

// CreateEintrag handles POST /api/protokoll.
func (h *ProtokollHandler) CreateEintrag(w http.ResponseWriter, r *http.Request) {
	var input models.ProtokollCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	e, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err, "failed to create changelog entry")
		return
	}
	response.Created(w, r, fmt.Sprintf("/api/protokoll/%s", e.ID), e)
}

// UpdateEintrag handles PUT /api/protokoll/{eintragId}.
func (h *ProtokollHandler) UpdateEintrag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eintragId")

	var input models.ProtokollUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	e, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		h.writeError(w, r, err, "failed to update changelog entry")
		return
	}
	response.JSON(w, r, http.StatusOK, e)
}

// DeleteEintrag handles DELETE /api/protokoll/{eintragId}.
func (h *ProtokollHandler) DeleteEintrag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eintragId")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "failed to delete changelog entry")
		return
	}
	response.NoContent(w, r)
}

func (h *ProtokollHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *protokoll.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation error", verr.Errors)
	case errors.Is(err, protokoll.ErrEintragNotFound):
		response.NotFound(w, r, "changelog entry not found")
	default:
		response.InternalError(w, r, fallback)
	}
}
