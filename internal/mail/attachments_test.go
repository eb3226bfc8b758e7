package mail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/resilience"
)

func newTestFetcher() *Fetcher {
	cfg := resilience.DefaultClientConfig("test")
	cfg.MaxRetries = 1
	cfg.InitialInterval = time.Millisecond
	return NewFetcher(resilience.NewClient(cfg), zerolog.Nop())
}

func TestFetcher_FetchesReachableFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer server.Close()

	files, skipped := newTestFetcher().Fetch(context.Background(), []models.EmailAttachment{
		{Name: "Rg_Acme-Ltd_2025-001.pdf", URL: server.URL + "/rg.pdf"},
	})

	require.Len(t, files, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, "Rg_Acme-Ltd_2025-001.pdf", files[0].Name)
	assert.Equal(t, []byte("%PDF-1.7"), files[0].Content)
}

func TestFetcher_SkipsDeadURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	files, skipped := newTestFetcher().Fetch(context.Background(), []models.EmailAttachment{
		{Name: "missing.pdf", URL: server.URL + "/missing.pdf"},
	})

	assert.Empty(t, files)
	assert.Equal(t, []string{"missing.pdf"}, skipped)
}
