// Package vorgang provides export-case tracking: case records, their
// uploaded documents and the document-arrival status lifecycle.
package vorgang

import (
	"errors"
	"time"

	"github.com/exportdesk/exportdesk/pkg/filename"
)

// Repository errors.
var (
	ErrVorgangNotFound = errors.New("vorgang not found")
	ErrUploadNotFound  = errors.New("upload not found")
)

// Vorgang represents an export-declaration case being tracked.
type Vorgang struct {
	// ID is the unique case identifier (format: vg_XXXX).
	ID string

	// Empfaenger is the recipient (customer) name.
	Empfaenger string

	// Land is the destination country.
	Land string

	// MRN is the customs movement reference number. It is assigned by
	// customs after filing and backfilled by the user, so it is nil on
	// a fresh case.
	MRN *string

	// Status is the document-arrival state.
	Status Status

	// Notizen is free-text case notes.
	Notizen string

	// FormData is the original form submission, stored as a versioned
	// JSON document.
	FormData *FormData

	// Dokumente holds one slot per document kind referencing the
	// current upload of that kind.
	Dokumente DocumentSlots

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kunde returns the customer name used for filenames and mail drafts:
// the form recipient if present, else the top-level Empfaenger field.
func (v *Vorgang) Kunde() string {
	if v.FormData != nil && v.FormData.Recipient.Name != "" {
		return v.FormData.Recipient.Name
	}
	return v.Empfaenger
}

// Rechnungsnummer returns the invoice number from the form data, or "".
func (v *Vorgang) Rechnungsnummer() string {
	if v.FormData != nil {
		return v.FormData.InvoiceNumber
	}
	return ""
}

// MRNString returns the MRN or "".
func (v *Vorgang) MRNString() string {
	if v.MRN != nil {
		return *v.MRN
	}
	return ""
}

// DocumentSlots references the current upload of each document kind.
// Slot values are upload IDs; nil means no document of that kind.
type DocumentSlots struct {
	Atlas    *string
	Rechnung *string
	ABD      *string
	AGV      *string
}

// Get returns the slot value for a document kind.
func (d *DocumentSlots) Get(kind filename.Kind) *string {
	switch kind {
	case filename.KindAtlas:
		return d.Atlas
	case filename.KindRechnung:
		return d.Rechnung
	case filename.KindABD:
		return d.ABD
	case filename.KindAGV:
		return d.AGV
	}
	return nil
}

// Set stores an upload ID in the slot for a document kind.
func (d *DocumentSlots) Set(kind filename.Kind, uploadID *string) {
	switch kind {
	case filename.KindAtlas:
		d.Atlas = uploadID
	case filename.KindRechnung:
		d.Rechnung = uploadID
	case filename.KindABD:
		d.ABD = uploadID
	case filename.KindAGV:
		d.AGV = uploadID
	}
}

// Upload represents a stored document file belonging to a case.
type Upload struct {
	// ID is the unique upload identifier (format: up_XXXX).
	ID string

	// VorgangID is the owning case. Deleting the case cascades here.
	VorgangID string

	// Kind is the document kind. Replaces the free-text label of the
	// legacy store; labels are mapped to kinds before persisting.
	Kind filename.Kind

	// Filename is the stored filename built by pkg/filename.
	Filename string

	// URL is the public or API-served location of the file.
	URL string

	// Size is the file size in bytes.
	Size int64

	// DeleteAfter schedules removal for retention-bound documents
	// (the exit confirmation). Nil means keep indefinitely.
	DeleteAfter *time.Time

	UploadedAt time.Time
}
