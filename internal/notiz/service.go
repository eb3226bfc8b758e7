package notiz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/exportdesk/exportdesk/internal/api/models"
)

// Validation constants.
const (
	MaxTitelLength        = 200
	MaxBeschreibungLength = 5000
)

// Service provides note operations.
type Service struct {
	repo Repository
}

// NewService creates a new note service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all notes.
func (s *Service) List(ctx context.Context) ([]models.Notiz, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Notiz, 0, len(result))
	for _, n := range result {
		items = append(items, toAPINotiz(n))
	}
	return items, nil
}

// Get retrieves a note by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Notiz, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toAPINotiz(n)
	return &result, nil
}

// Create creates a new note.
func (s *Service) Create(ctx context.Context, input *models.NotizCreateRequest) (*models.Notiz, error) {
	if errs := validateNotiz(input.Titel, input.Beschreibung); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	n := &Notiz{
		ID:           "nz_" + uuid.New().String()[:22],
		Titel:        strings.TrimSpace(input.Titel),
		Beschreibung: input.Beschreibung,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	result := toAPINotiz(n)
	return &result, nil
}

// Update applies a partial update to a note.
func (s *Service) Update(ctx context.Context, id string, input *models.NotizUpdateRequest) (*models.Notiz, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Titel != nil {
		n.Titel = strings.TrimSpace(*input.Titel)
	}
	if input.Beschreibung != nil {
		n.Beschreibung = *input.Beschreibung
	}
	if errs := validateNotiz(n.Titel, n.Beschreibung); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	result := toAPINotiz(n)
	return &result, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateNotiz(titel, beschreibung string) []models.FieldError {
	var errs []models.FieldError
	if strings.TrimSpace(titel) == "" {
		errs = append(errs, models.FieldError{Field: "titel", Message: "is required"})
	} else if len(titel) > MaxTitelLength {
		errs = append(errs, models.FieldError{Field: "titel", Message: "must be at most 200 characters"})
	}
	if len(beschreibung) > MaxBeschreibungLength {
		errs = append(errs, models.FieldError{Field: "beschreibung", Message: "must be at most 5000 characters"})
	}
	return errs
}

func toAPINotiz(n *Notiz) models.Notiz {
	return models.Notiz{
		ID:           n.ID,
		Titel:        n.Titel,
		Beschreibung: n.Beschreibung,
		Erstelldatum: models.Timestamp(n.CreatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
