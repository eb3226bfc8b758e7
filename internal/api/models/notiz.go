package models

// Notiz represents a free-text note.
type Notiz struct {
	ID           string    `json:"id"`
	Titel        string    `json:"titel"`
	Beschreibung string    `json:"beschreibung"`
	Erstelldatum Timestamp `json:"erstelldatum"`
}

// NotizCreateRequest is the create payload for a note.
type NotizCreateRequest struct {
	Titel        string `json:"titel"`
	Beschreibung string `json:"beschreibung"`
}

// NotizUpdateRequest is the update payload; nil fields are left untouched.
type NotizUpdateRequest struct {
	Titel        *string `json:"titel,omitempty"`
	Beschreibung *string `json:"beschreibung,omitempty"`
}

// ProtokollEintrag represents one changelog entry.
type ProtokollEintrag struct {
	ID           string    `json:"id"`
	Version      string    `json:"version"`
	Beschreibung string    `json:"beschreibung"`
	Erstelldatum Timestamp `json:"erstelldatum"`
}

// ProtokollCreateRequest is the create payload for a changelog entry.
type ProtokollCreateRequest struct {
	Version      string `json:"version"`
	Beschreibung string `json:"beschreibung"`
}

// ProtokollUpdateRequest is the update payload; nil fields are left untouched.
type ProtokollUpdateRequest struct {
	Version      *string `json:"version,omitempty"`
	Beschreibung *string `json:"beschreibung,omitempty"`
}
