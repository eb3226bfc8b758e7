package notiz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/exportdesk/internal/api/models"
)

func TestCreateNotiz(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	n, err := svc.Create(context.Background(), &models.NotizCreateRequest{
		Titel:        "  Zollbesichtigung  ",
		Beschreibung: "Besichtigung am Standort angekündigt.",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(n.ID, "nz_"))
	assert.Equal(t, "Zollbesichtigung", n.Titel)
}

func TestCreateNotiz_Validation(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Create(context.Background(), &models.NotizCreateRequest{Titel: "  "})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "titel", verr.Errors[0].Field)
}

func TestUpdateNotiz(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	created, err := svc.Create(context.Background(), &models.NotizCreateRequest{Titel: "Alt"})
	require.NoError(t, err)

	titel := "Neu"
	updated, err := svc.Update(context.Background(), created.ID, &models.NotizUpdateRequest{Titel: &titel})
	require.NoError(t, err)
	assert.Equal(t, "Neu", updated.Titel)
}

func TestDeleteNotiz(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	created, err := svc.Create(context.Background(), &models.NotizCreateRequest{Titel: "Weg damit"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotizNotFound)

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotizNotFound)
}
