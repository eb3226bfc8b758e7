// Package backup streams PostgreSQL dumps for the manual backup
// endpoint.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/exportdesk/exportdesk/internal/database"
)

// Dumper produces database dumps with pg_dump.
type Dumper struct {
	cfg database.Config
}

// NewDumper creates a new dumper for the given database.
func NewDumper(cfg database.Config) *Dumper {
	return &Dumper{cfg: cfg}
}

// Filename returns a timestamped name for the dump file.
func (d *Dumper) Filename(now time.Time) string {
	return fmt.Sprintf("%s_%s.sql", d.cfg.Database, now.Format("2006-01-02_150405"))
}

// Dump runs pg_dump and streams the plain-SQL dump to w. The dump is
// written as it is produced; on failure the stderr tail is returned in
// the error.
func (d *Dumper) Dump(ctx context.Context, w io.Writer) error {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--dbname", d.cfg.ConnectionString(),
		"--format", "plain",
		"--no-owner",
	)
	cmd.Stdout = w

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump: %w: %s", err, stderr.String())
	}
	return nil
}
