package models

// EmailAttachment names one attachment by its stored URL.
type EmailAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EmailSendRequest is the SMTP relay payload.
type EmailSendRequest struct {
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	Text        string            `json:"text"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// EmailSendResult reports which attachments made it into the mail.
type EmailSendResult struct {
	Sent     bool     `json:"sent"`
	Attached []string `json:"attached,omitempty"`
	Skipped  []string `json:"skipped,omitempty"`
}

// EmailDraft is a prefilled stakeholder mail for a case: subject, body,
// a mailto URL for client-side sending and the document attachments the
// backend relay would include.
type EmailDraft struct {
	Typ         string            `json:"typ"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Mailto      string            `json:"mailto"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}
