package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/exportdesk/internal/api/models"
)

func TestParseDraftType(t *testing.T) {
	for _, s := range []string{"auftrag", "abd", "agv"} {
		typ, err := ParseDraftType(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(typ))
	}

	_, err := ParseDraftType("rechnung")
	assert.Error(t, err)
}

func TestBuildDraft_Auftrag(t *testing.T) {
	// A Wednesday; the inspection lands on Thursday.
	now := time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)

	draft, err := BuildDraft(DraftAuftrag, DraftData{
		Kunde:           "Acme Ltd",
		Land:            "USA",
		Rechnungsnummer: "2025-001",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "Ausfuhranmeldung Acme Ltd, US – 2025-001", draft.Subject)
	assert.Contains(t, draft.Body, "Donnerstag, 04.09.2025")
	assert.Contains(t, draft.Body, "von 10:00 bis 12:00 Uhr")
	assert.True(t, strings.HasPrefix(draft.Mailto, "mailto:?subject="))
	assert.NotContains(t, draft.Mailto, "+")
}

func TestBuildDraft_ABD(t *testing.T) {
	draft, err := BuildDraft(DraftABD, DraftData{
		Kunde:           "Acme Ltd",
		Land:            "USA",
		Rechnungsnummer: "2025-001",
		MRN:             "25DE123456789012A1",
		Attachments: []models.EmailAttachment{
			{Name: "ABD_Acme-Ltd_2025-001.pdf", URL: "https://files.example/abd.pdf"},
		},
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "👉🏼 ABD Acme Ltd, US – 2025-001, MRN 25DE123456789012A1", draft.Subject)
	assert.Contains(t, draft.Body, "Ausfuhrbegleitdokument")
	require.Len(t, draft.Attachments, 1)
}

func TestBuildDraft_AGV(t *testing.T) {
	draft, err := BuildDraft(DraftAGV, DraftData{
		Kunde:           "Acme Ltd",
		Land:            "USA",
		Rechnungsnummer: "2025-001",
		MRN:             "25DE123456789012A1",
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "✅ AGV Acme Ltd, US – 2025-001, MRN 25DE123456789012A1", draft.Subject)
	assert.Contains(t, draft.Body, "Ausgangsvermerk")
}

func TestBuildDraft_Fallbacks(t *testing.T) {
	draft, err := BuildDraft(DraftAuftrag, DraftData{}, time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, draft.Subject, "Kunde")
	assert.Contains(t, draft.Subject, "Unbekannt")
}

func TestNextInspectionDay(t *testing.T) {
	// 2025-09-01 is a Monday.
	monday := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want time.Weekday
	}{
		{"friday rolls to tuesday", monday.AddDate(0, 0, 4), time.Tuesday},
		{"saturday rolls to tuesday", monday.AddDate(0, 0, 5), time.Tuesday},
		{"sunday rolls to tuesday", monday.AddDate(0, 0, 6), time.Tuesday},
		{"monday rolls to tuesday", monday, time.Tuesday},
		{"tuesday rolls to wednesday", monday.AddDate(0, 0, 1), time.Wednesday},
		{"wednesday rolls to thursday", monday.AddDate(0, 0, 2), time.Thursday},
		{"thursday rolls to friday", monday.AddDate(0, 0, 3), time.Friday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextInspectionDay(tt.now).Weekday())
		})
	}
}
