// Package filename builds deterministic, sanitized filenames for the
// documents attached to an export case. Every document kind has a fixed
// prefix so the owner of a file is recognizable at a glance in a bucket
// listing or a mail attachment.
package filename

import (
	"regexp"
	"strings"
	"time"
)

// Kind identifies a document kind attached to an export case.
type Kind string

// Document kinds.
const (
	// KindAtlas is the customs declaration PDF generated from the form.
	KindAtlas Kind = "atlas"
	// KindRechnung is the commercial invoice.
	KindRechnung Kind = "rechnung"
	// KindABD is the Ausfuhrbegleitdokument (export accompanying document).
	KindABD Kind = "abd"
	// KindAGV is the Ausgangsvermerk (exit confirmation).
	KindAGV Kind = "agv"
)

// Kinds lists all document kinds in display order.
var Kinds = []Kind{KindAtlas, KindRechnung, KindABD, KindAGV}

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAtlas, KindRechnung, KindABD, KindAGV:
		return true
	}
	return false
}

// Fallback is used in place of empty or fully stripped fields.
const Fallback = "Unbekannt"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^A-Za-z0-9\-_]`)
)

// Sanitize trims s, collapses whitespace runs to a single hyphen and
// strips every character outside [A-Za-z0-9-_]. An empty result yields
// the Fallback placeholder. Sanitize is idempotent.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	if s == "" {
		return Fallback
	}
	return s
}

// Build maps a document kind and case metadata to the stored filename.
// The MRN is only included for customs documents (ABD, AGV) and only
// when present. Uses the current date for the Atlas fallback suffix.
func Build(kind Kind, kunde, rechnungsnummer, mrn string) string {
	return BuildAt(kind, kunde, rechnungsnummer, mrn, time.Now())
}

// BuildAt is Build with an explicit clock, used when the Atlas filename
// must fall back to a date because no invoice number exists yet.
func BuildAt(kind Kind, kunde, rechnungsnummer, mrn string, now time.Time) string {
	safeName := Sanitize(kunde)
	safeInvoice := Sanitize(rechnungsnummer)

	safeMrn := ""
	if strings.TrimSpace(mrn) != "" {
		safeMrn = "_" + Sanitize(mrn)
	}

	switch kind {
	case KindRechnung:
		return "Rg_" + safeName + "_" + safeInvoice + ".pdf"
	case KindABD:
		return "ABD_" + safeName + "_" + safeInvoice + safeMrn + ".pdf"
	case KindAGV:
		return "AGV_" + safeName + "_" + safeInvoice + safeMrn + ".pdf"
	default:
		suffix := safeInvoice
		if strings.TrimSpace(rechnungsnummer) == "" {
			suffix = now.Format("2006_01_02")
		}
		return "Atlas_" + safeName + "_" + suffix + ".pdf"
	}
}

// Prefix returns the filename prefix used for a document kind.
func Prefix(kind Kind) string {
	switch kind {
	case KindRechnung:
		return "Rg_"
	case KindABD:
		return "ABD_"
	case KindAGV:
		return "AGV_"
	default:
		return "Atlas_"
	}
}
