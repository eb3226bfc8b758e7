package models

import "encoding/json"

// Vorgang represents an export case on the wire. Field names follow the
// German vocabulary the front-end was built around.
type Vorgang struct {
	ID           string          `json:"id"`
	Empfaenger   string          `json:"empfaenger"`
	Land         string          `json:"land"`
	MRN          *string         `json:"mrn,omitempty"`
	Status       string          `json:"status"`
	Notizen      string          `json:"notizen"`
	FormData     json.RawMessage `json:"formdata,omitempty"`
	Erstelldatum Timestamp       `json:"erstelldatum"`
	Aktualisiert Timestamp       `json:"aktualisiert"`
}

// VorgangDetail is a case enriched with its derived files object and
// the full uploads list.
type VorgangDetail struct {
	Vorgang
	Files   Files    `json:"files"`
	Uploads []Upload `json:"uploads"`
}

// Files references the current document of each kind, derived from the
// case's document slots rather than filename matching.
type Files struct {
	Atlas    *FileRef `json:"atlas,omitempty"`
	Rechnung *FileRef `json:"rechnung,omitempty"`
	ABD      *FileRef `json:"abd,omitempty"`
	AGV      *FileRef `json:"agv,omitempty"`
}

// FileRef points at one stored document.
type FileRef struct {
	UploadID string `json:"uploadId"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Upload represents one stored document file.
type Upload struct {
	ID          string     `json:"id"`
	VorgangID   string     `json:"vorgangId"`
	Kind        string     `json:"kind"`
	Filename    string     `json:"filename"`
	URL         string     `json:"url"`
	Size        int64      `json:"size"`
	UploadedAt  Timestamp  `json:"uploadedAt"`
	DeleteAfter *Timestamp `json:"deleteAfter,omitempty"`
}

// VorgangCreateRequest is the create payload. FormData is passed
// through as raw JSON and validated against the versioned schema.
type VorgangCreateRequest struct {
	Empfaenger string          `json:"empfaenger"`
	Land       string          `json:"land"`
	MRN        *string         `json:"mrn,omitempty"`
	Notizen    string          `json:"notizen"`
	FormData   json.RawMessage `json:"formdata,omitempty"`
}

// VorgangUpdateRequest is the PATCH payload; nil fields are left
// untouched. Status changes are validated against the transition table.
type VorgangUpdateRequest struct {
	Empfaenger *string         `json:"empfaenger,omitempty"`
	Land       *string         `json:"land,omitempty"`
	MRN        *string         `json:"mrn,omitempty"`
	Notizen    *string         `json:"notizen,omitempty"`
	Status     *string         `json:"status,omitempty"`
	FormData   json.RawMessage `json:"formdata,omitempty"`
}

// StatusChangeRequest is the explicit transition payload. An empty
// status requests the manual click-through toggle.
type StatusChangeRequest struct {
	Status string `json:"status"`
}
