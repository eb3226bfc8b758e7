package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/exportdesk/exportdesk/internal/api/response"
	"github.com/exportdesk/exportdesk/internal/backup"
)

// BackupHandler handles the manual database backup endpoint.
type BackupHandler struct {
	dumper *backup.Dumper
	logger zerolog.Logger
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(dumper *backup.Dumper, logger zerolog.Logger) *BackupHandler {
	return &BackupHandler{dumper: dumper, logger: logger}
}

// Backup handles GET /api/backup - run pg_dump and return the dump as a
// file download. The dump is buffered so a failed run still gets a
// clean problem response instead of a truncated file.
func (h *BackupHandler) Backup(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.dumper.Dump(r.Context(), &buf); err != nil {
		h.logger.Error().Err(err).Msg("database backup failed")
		response.InternalError(w, r, "backup failed")
		return
	}

	name := h.dumper.Filename(time.Now())
	w.Header().Set("Content-Type", "application/sql")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())

	h.logger.Info().Str("file", name).Int("bytes", buf.Len()).Msg("database backup downloaded")
}
