package protokoll

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/exportdesk/exportdesk/internal/api/models"
)

// Validation constants.
const (
	MaxVersionLength      = 50
	MaxBeschreibungLength = 5000
)

// Service provides changelog operations.
type Service struct {
	repo Repository
}

// NewService creates a new changelog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all entries.
func (s *Service) List(ctx context.Context) ([]models.ProtokollEintrag, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.ProtokollEintrag, 0, len(result))
	for _, e := range result {
		items = append(items, toAPIEintrag(e))
	}
	return items, nil
}

// Get retrieves an entry by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.ProtokollEintrag, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toAPIEintrag(e)
	return &result, nil
}

// Create creates a new entry.
func (s *Service) Create(ctx context.Context, input *models.ProtokollCreateRequest) (*models.ProtokollEintrag, error) {
	if errs := validateEintrag(input.Version, input.Beschreibung); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	e := &Eintrag{
		ID:           "pk_" + uuid.New().String()[:22],
		Version:      strings.TrimSpace(input.Version),
		Beschreibung: input.Beschreibung,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	result := toAPIEintrag(e)
	return &result, nil
}

// Update applies a partial update to an entry.
func (s *Service) Update(ctx context.Context, id string, input *models.ProtokollUpdateRequest) (*models.ProtokollEintrag, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Version != nil {
		e.Version = strings.TrimSpace(*input.Version)
	}
	if input.Beschreibung != nil {
		e.Beschreibung = *input.Beschreibung
	}
	if errs := validateEintrag(e.Version, e.Beschreibung); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	result := toAPIEintrag(e)
	return &result, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateEintrag(version, beschreibung string) []models.FieldError {
	var errs []models.FieldError
	if strings.TrimSpace(version) == "" {
		errs = append(errs, models.FieldError{Field: "version", Message: "is required"})
	} else if len(version) > MaxVersionLength {
		errs = append(errs, models.FieldError{Field: "version", Message: "must be at most 50 characters"})
	}
	if len(beschreibung) > MaxBeschreibungLength {
		errs = append(errs, models.FieldError{Field: "beschreibung", Message: "must be at most 5000 characters"})
	}
	return errs
}

func toAPIEintrag(e *Eintrag) models.ProtokollEintrag {
	return models.ProtokollEintrag{
		ID:           e.ID,
		Version:      e.Version,
		Beschreibung: e.Beschreibung,
		Erstelldatum: models.Timestamp(e.CreatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
