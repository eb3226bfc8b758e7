package mail

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/exportdesk/exportdesk/internal/api/models"
	"github.com/exportdesk/exportdesk/internal/resilience"
)

// maxAttachmentSize caps a single fetched document at 25 MB, the common
// relay limit for a whole message.
const maxAttachmentSize = 25 << 20

// Fetcher downloads attachment documents from their storage URLs.
// Unreachable files are skipped rather than failing the whole send.
type Fetcher struct {
	client *resilience.Client
	logger zerolog.Logger
}

// NewFetcher creates a new attachment fetcher.
func NewFetcher(client *resilience.Client, logger zerolog.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads the given attachments. It returns the files that
// could be retrieved and the names of those that were skipped.
func (f *Fetcher) Fetch(ctx context.Context, refs []models.EmailAttachment) ([]Attachment, []string) {
	var files []Attachment
	var skipped []string

	for _, ref := range refs {
		content, err := f.fetchOne(ctx, ref.URL)
		if err != nil {
			f.logger.Warn().Err(err).
				Str("name", ref.Name).
				Str("url", ref.URL).
				Msg("skipping unreachable attachment")
			skipped = append(skipped, ref.Name)
			continue
		}
		files = append(files, Attachment{Name: ref.Name, Content: content})
	}
	return files, skipped
}

// fetchOne probes the URL with HEAD before downloading, so a dead link
// is skipped without pulling a body.
func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	head, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(head)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file not reachable: status %d", resp.StatusCode)
	}

	get, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err = f.client.Do(get)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxAttachmentSize {
		return nil, fmt.Errorf("attachment exceeds %d bytes", maxAttachmentSize)
	}
	return content, nil
}
