package protokoll

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/exportdesk/internal/api/models"
)

func TestCreateEintrag(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	e, err := svc.Create(context.Background(), &models.ProtokollCreateRequest{
		Version:      "1.4.0",
		Beschreibung: "MRN-Spalte in der Übersicht ergänzt.",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(e.ID, "pk_"))
	assert.Equal(t, "1.4.0", e.Version)
}

func TestCreateEintrag_Validation(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Create(context.Background(), &models.ProtokollCreateRequest{Version: ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "version", verr.Errors[0].Field)
}

func TestUpdateEintrag(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	created, err := svc.Create(context.Background(), &models.ProtokollCreateRequest{Version: "1.4.0"})
	require.NoError(t, err)

	beschreibung := "Nachtrag: Hotfix für Dateinamen."
	updated, err := svc.Update(context.Background(), created.ID, &models.ProtokollUpdateRequest{
		Beschreibung: &beschreibung,
	})
	require.NoError(t, err)
	assert.Equal(t, beschreibung, updated.Beschreibung)
	assert.Equal(t, "1.4.0", updated.Version)
}

func TestDeleteEintrag(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	created, err := svc.Create(context.Background(), &models.ProtokollCreateRequest{Version: "1.0.0"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrEintragNotFound)
}
