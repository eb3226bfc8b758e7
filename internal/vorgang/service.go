package vorgang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/storage"
	"github.com/exportdesk/exportdesk/pkg/filename"
)

// Service errors.
var (
	// ErrInvalidTransition is returned for status writes the transition
	// table does not allow.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrUnknownLabel is returned for upload labels that do not map to
	// a document kind.
	ErrUnknownLabel = errors.New("unknown document label")
)

// Validation constants.
const (
	MaxEmpfaengerLength = 200
	MaxNotizenLength    = 2000
)

// ServiceConfig holds dependencies for the case service.
type ServiceConfig struct {
	Repository Repository
	Store      storage.Store

	// AGVRetention schedules deletion of exit confirmations after the
	// legally mandated window. Zero disables scheduling.
	AGVRetention time.Duration
}

// Service provides export-case operations.
type Service struct {
	repo         Repository
	store        storage.Store
	agvRetention time.Duration
}

// NewService creates a new case service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:         cfg.Repository,
		store:        cfg.Store,
		agvRetention: cfg.AGVRetention,
	}
}

// List retrieves cases, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Vorgang, error) {
	result, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	items := make([]models.Vorgang, 0, len(result))
	for _, v := range result {
		items = append(items, s.toAPIVorgang(v))
	}
	return items, nil
}

// Get retrieves a case with its derived files object and uploads.
func (s *Service) Get(ctx context.Context, id string) (*models.VorgangDetail, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	uploads, err := s.repo.ListUploads(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.VorgangDetail{
		Vorgang: s.toAPIVorgang(v),
		Uploads: make([]models.Upload, 0, len(uploads)),
	}

	byID := make(map[string]*Upload, len(uploads))
	for _, up := range uploads {
		byID[up.ID] = up
		detail.Uploads = append(detail.Uploads, toAPIUpload(up))
	}

	setRef := func(slot *string) *models.FileRef {
		if slot == nil {
			return nil
		}
		up, ok := byID[*slot]
		if !ok {
			return nil
		}
		return &models.FileRef{UploadID: up.ID, Filename: up.Filename, URL: up.URL}
	}
	detail.Files = models.Files{
		Atlas:    setRef(v.Dokumente.Atlas),
		Rechnung: setRef(v.Dokumente.Rechnung),
		ABD:      setRef(v.Dokumente.ABD),
		AGV:      setRef(v.Dokumente.AGV),
	}
	return detail, nil
}

// Create creates a new case in the initial state.
func (s *Service) Create(ctx context.Context, input *models.VorgangCreateRequest) (*models.Vorgang, error) {
	fd, fieldErrors := s.validateCreateInput(input)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	v := &Vorgang{
		ID:         "vg_" + uuid.New().String()[:22],
		Empfaenger: strings.TrimSpace(input.Empfaenger),
		Land:       strings.TrimSpace(input.Land),
		MRN:        normalizeMRN(input.MRN),
		Status:     StatusAngelegt,
		Notizen:    input.Notizen,
		FormData:   fd,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	result := s.toAPIVorgang(v)
	return &result, nil
}

// Update applies a partial update. Status changes go through the
// transition table; direct writes of disallowed transitions fail with
// ErrInvalidTransition.
func (s *Service) Update(ctx context.Context, id string, input *models.VorgangUpdateRequest) (*models.Vorgang, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fieldErrors := s.validateUpdateInput(input)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Empfaenger != nil {
		v.Empfaenger = strings.TrimSpace(*input.Empfaenger)
	}
	if input.Land != nil {
		v.Land = strings.TrimSpace(*input.Land)
	}
	if input.MRN != nil {
		v.MRN = normalizeMRN(input.MRN)
	}
	if input.Notizen != nil {
		v.Notizen = *input.Notizen
	}
	if len(input.FormData) > 0 {
		fd, ferrs := parseFormData(input.FormData)
		if len(ferrs) > 0 {
			return nil, &ValidationError{Errors: ferrs}
		}
		v.FormData = fd
	}
	if input.Status != nil {
		next, err := ParseStatus(*input.Status)
		if err != nil {
			return nil, &ValidationError{Errors: []models.FieldError{{Field: "status", Message: err.Error()}}}
		}
		if !v.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, next)
		}
		v.Status = next
	}
	v.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	result := s.toAPIVorgang(v)
	return &result, nil
}

// SetStatus applies an explicit status transition. An empty target
// requests the manual click-through toggle between the first two
// states; later states are locked against toggling.
func (s *Service) SetStatus(ctx context.Context, id, target string) (*models.Vorgang, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var next Status
	if target == "" {
		toggled, ok := v.Status.Toggle()
		if !ok {
			return nil, fmt.Errorf("%w: %s is locked", ErrInvalidTransition, v.Status)
		}
		next = toggled
	} else {
		next, err = ParseStatus(target)
		if err != nil {
			return nil, &ValidationError{Errors: []models.FieldError{{Field: "status", Message: err.Error()}}}
		}
		if !v.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, next)
		}
	}

	v.Status = next
	v.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	result := s.toAPIVorgang(v)
	return &result, nil
}

// Delete removes a case, its stored files and, via cascade, its upload
// rows.
func (s *Service) Delete(ctx context.Context, id string) error {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	uploads, err := s.repo.ListUploads(ctx, id)
	if err != nil {
		return err
	}
	for _, up := range uploads {
		if err := s.store.Delete(ctx, v.ID, up.Filename); err != nil {
			return fmt.Errorf("delete stored file %s: %w", up.Filename, err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// ParseLabel maps a user-facing document label to a kind. Labels are an
// explicit closed set; anything else is rejected rather than stored as
// free text.
func ParseLabel(label string) (filename.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "atlas", "pdf", "ausfuhranmeldung":
		return filename.KindAtlas, nil
	case "rechnung", "invoice":
		return filename.KindRechnung, nil
	case "abd", "ausfuhrbegleitdokument":
		return filename.KindABD, nil
	case "agv", "ausgangsvermerk":
		return filename.KindAGV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}

// Upload stores a document file for a case and attaches it: the file is
// written to storage first, then the upload row, document slot and any
// status advance are committed in one transaction. If the transaction
// fails the stored file is removed again.
func (s *Service) Upload(ctx context.Context, vorgangID string, kind filename.Kind, content []byte) (*models.Upload, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, kind)
	}

	v, err := s.repo.Get(ctx, vorgangID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := filename.BuildAt(kind, v.Kunde(), v.Rechnungsnummer(), v.MRNString(), now)

	url, err := s.store.Save(ctx, v.ID, name, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	up := &Upload{
		ID:         "up_" + uuid.New().String()[:22],
		VorgangID:  v.ID,
		Kind:       kind,
		Filename:   name,
		URL:        url,
		Size:       int64(len(content)),
		UploadedAt: now,
	}
	if kind == filename.KindAGV && s.agvRetention > 0 {
		deleteAfter := now.Add(s.agvRetention)
		up.DeleteAfter = &deleteAfter
	}

	var newStatus *Status
	if next, changed := NextForUpload(v.Status, kind); changed {
		newStatus = &next
	}

	if err := s.repo.AttachUpload(ctx, up, newStatus); err != nil {
		_ = s.store.Delete(ctx, v.ID, name)
		return nil, err
	}

	result := toAPIUpload(up)
	return &result, nil
}

// validateCreateInput validates the create payload and parses the form
// data blob.
func (s *Service) validateCreateInput(input *models.VorgangCreateRequest) (*FormData, []models.FieldError) {
	var errs []models.FieldError

	if strings.TrimSpace(input.Empfaenger) == "" {
		errs = append(errs, models.FieldError{Field: "empfaenger", Message: "is required"})
	} else if len(input.Empfaenger) > MaxEmpfaengerLength {
		errs = append(errs, models.FieldError{Field: "empfaenger", Message: "must be at most 200 characters"})
	}
	if len(input.Notizen) > MaxNotizenLength {
		errs = append(errs, models.FieldError{Field: "notizen", Message: "must be at most 2000 characters"})
	}

	var fd *FormData
	if len(input.FormData) > 0 {
		var ferrs []models.FieldError
		fd, ferrs = parseFormData(input.FormData)
		errs = append(errs, ferrs...)
	}
	return fd, errs
}

// validateUpdateInput validates the PATCH payload.
func (s *Service) validateUpdateInput(input *models.VorgangUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Empfaenger != nil && strings.TrimSpace(*input.Empfaenger) == "" {
		errs = append(errs, models.FieldError{Field: "empfaenger", Message: "cannot be empty"})
	}
	if input.Empfaenger != nil && len(*input.Empfaenger) > MaxEmpfaengerLength {
		errs = append(errs, models.FieldError{Field: "empfaenger", Message: "must be at most 200 characters"})
	}
	if input.Notizen != nil && len(*input.Notizen) > MaxNotizenLength {
		errs = append(errs, models.FieldError{Field: "notizen", Message: "must be at most 2000 characters"})
	}
	return errs
}

// parseFormData decodes and validates a submitted form-data blob. A
// missing schema version is stamped with the current one; any other
// version is rejected.
func parseFormData(raw json.RawMessage) (*FormData, []models.FieldError) {
	var fd FormData
	if err := json.Unmarshal(raw, &fd); err != nil {
		return nil, []models.FieldError{{Field: "formdata", Message: "must be a JSON object"}}
	}

	if fd.SchemaVersion == 0 {
		fd.SchemaVersion = FormDataSchemaVersion
	}
	if fd.SchemaVersion != FormDataSchemaVersion {
		return nil, []models.FieldError{{
			Field:   "formdata.schemaVersion",
			Message: fmt.Sprintf("unsupported schema version %d", fd.SchemaVersion),
		}}
	}

	var errs []models.FieldError
	if fd.Recipient.Name == "" {
		errs = append(errs, models.FieldError{Field: "formdata.recipient.name", Message: "is required"})
	}
	for i, item := range fd.Items {
		if item.Description == "" {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("formdata.items[%d].description", i),
				Message: "is required",
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &fd, nil
}

func normalizeMRN(mrn *string) *string {
	if mrn == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*mrn)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// toAPIVorgang converts a domain case to an API case.
func (s *Service) toAPIVorgang(v *Vorgang) models.Vorgang {
	out := models.Vorgang{
		ID:           v.ID,
		Empfaenger:   v.Empfaenger,
		Land:         v.Land,
		MRN:          v.MRN,
		Status:       string(v.Status),
		Notizen:      v.Notizen,
		Erstelldatum: models.Timestamp(v.CreatedAt),
		Aktualisiert: models.Timestamp(v.UpdatedAt),
	}
	if v.FormData != nil {
		if raw, err := v.FormData.Encode(); err == nil {
			out.FormData = raw
		}
	}
	return out
}

// toAPIUpload converts a domain upload to an API upload.
func toAPIUpload(up *Upload) models.Upload {
	out := models.Upload{
		ID:         up.ID,
		VorgangID:  up.VorgangID,
		Kind:       string(up.Kind),
		Filename:   up.Filename,
		URL:        up.URL,
		Size:       up.Size,
		UploadedAt: models.Timestamp(up.UploadedAt),
	}
	if up.DeleteAfter != nil {
		t := models.Timestamp(*up.DeleteAfter)
		out.DeleteAfter = &t
	}
	return out
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
