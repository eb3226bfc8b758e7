package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/exportdesk/exportdesk/internal/api/middleware"
	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/api/response"
	"github.com/exportdesk/exportdesk/internal/mail"
	"github.com/exportdesk/exportdesk/internal/vorgang"
)

// EmailHandler handles mail sending and draft generation.
type EmailHandler struct {
	sender    *mail.Sender
	fetcher   *mail.Fetcher
	vorgaenge *vorgang.Service
	metrics   *middleware.ProviderMetrics
}

// NewEmailHandler creates a new EmailHandler. sender and fetcher may be
// nil when SMTP is not configured; drafts are built without them.
// metrics may be nil when telemetry is disabled.
func NewEmailHandler(sender *mail.Sender, fetcher *mail.Fetcher, vorgaenge *vorgang.Service, metrics *middleware.ProviderMetrics) *EmailHandler {
	return &EmailHandler{
		sender:    sender,
		fetcher:   fetcher,
		vorgaenge: vorgaenge,
		metrics:   metrics,
	}
}

// SendEmail handles POST /api/email/send - relay a mail with stored
// documents attached. Unreachable documents are skipped, not fatal.
// Answers 503 when no SMTP relay is configured; the draft endpoint
// still works in that case.
func (h *EmailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if h.sender == nil {
		response.ServiceUnavailable(w, r, "mail relay not configured")
		return
	}

	var input models.EmailSendRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var fieldErrors []models.FieldError
	if strings.TrimSpace(input.To) == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "to", Message: "is required"})
	}
	if strings.TrimSpace(input.Subject) == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "subject", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	files, skipped := h.fetcher.Fetch(r.Context(), input.Attachments)
	if h.metrics != nil {
		h.metrics.RecordSkippedAttachments("smtp", len(skipped))
	}

	start := time.Now()
	err := h.sender.Send(r.Context(), input.To, input.Subject, input.Text, files)
	if h.metrics != nil {
		h.metrics.RecordRequest("smtp", "send", time.Since(start), err)
	}
	if err != nil {
		response.InternalError(w, r, "failed to send mail")
		return
	}

	result := models.EmailSendResult{Sent: true, Skipped: skipped}
	for _, f := range files {
		result.Attached = append(result.Attached, f.Name)
	}
	response.JSON(w, r, http.StatusOK, result)
}

// EmailDraft handles GET /api/vorgaenge/{vorgangId}/email-draft - build
// a prefilled stakeholder mail from the case.
func (h *EmailHandler) EmailDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vorgangId")

	typ, err := mail.ParseDraftType(r.URL.Query().Get("typ"))
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	detail, err := h.vorgaenge.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, vorgang.ErrVorgangNotFound) {
			response.NotFound(w, r, "case not found")
			return
		}
		response.InternalError(w, r, "failed to load case")
		return
	}

	data := draftData(detail, typ)
	draft, err := mail.BuildDraft(typ, data, time.Now())
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	response.JSON(w, r, http.StatusOK, draft)
}

// draftData extracts the template fields and the attachments belonging
// to the given draft type from a case.
func draftData(detail *models.VorgangDetail, typ mail.DraftType) mail.DraftData {
	data := mail.DraftData{
		Kunde: detail.Empfaenger,
		Land:  detail.Land,
	}
	if detail.MRN != nil {
		data.MRN = *detail.MRN
	}

	// Form data, when present, carries the authoritative recipient and
	// invoice fields.
	if fd, err := vorgang.DecodeFormData(detail.FormData); err == nil && fd != nil {
		if fd.Recipient.Name != "" {
			data.Kunde = fd.Recipient.Name
		}
		if fd.Recipient.Country != "" {
			data.Land = fd.Recipient.Country
		}
		data.Rechnungsnummer = fd.InvoiceNumber
	}

	attach := func(ref *models.FileRef) {
		if ref != nil {
			data.Attachments = append(data.Attachments, models.EmailAttachment{Name: ref.Filename, URL: ref.URL})
		}
	}
	switch typ {
	case mail.DraftAuftrag:
		attach(detail.Files.Atlas)
		attach(detail.Files.Rechnung)
	case mail.DraftABD:
		attach(detail.Files.ABD)
		attach(detail.Files.Rechnung)
	case mail.DraftAGV:
		attach(detail.Files.AGV)
	}
	return data
}
