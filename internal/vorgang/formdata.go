package vorgang

import (
	"encoding/json"
	"fmt"
)

// FormDataSchemaVersion is the current form-data schema. Stored blobs
// carry their version so unknown shapes can be rejected on read instead
// of surfacing as silently missing fields.
const FormDataSchemaVersion = 1

// FormData is the original export form submission, persisted as a
// versioned JSON document on the case.
type FormData struct {
	SchemaVersion  int        `json:"schemaVersion"`
	InvoiceNumber  string     `json:"invoiceNumber"`
	InvoiceTotal   string     `json:"invoiceTotal"`
	LoadingPlace   string     `json:"loadingPlace"`
	ShippingMethod string     `json:"shippingMethod"`
	Recipient      Recipient  `json:"recipient"`
	Items          []LineItem `json:"items"`
}

// Recipient is the delivery address block of the form.
type Recipient struct {
	Name     string `json:"name"`
	Addition string `json:"addition,omitempty"`
	Street   string `json:"street"`
	Zip      string `json:"zip"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// LineItem is one goods position of the form.
type LineItem struct {
	Description string `json:"description"`
	Tariff      string `json:"tariff"`
	Weight      string `json:"weight"`
	Value       string `json:"value"`
}

// DecodeFormData parses a stored form-data blob, rejecting blobs whose
// schema version is missing or unknown.
func DecodeFormData(raw []byte) (*FormData, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var fd FormData
	if err := json.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("decode form data: %w", err)
	}
	if fd.SchemaVersion != FormDataSchemaVersion {
		return nil, fmt.Errorf("unsupported form data schema version %d", fd.SchemaVersion)
	}
	return &fd, nil
}

// Encode serializes the form data for storage, stamping the current
// schema version.
func (f *FormData) Encode() ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	f.SchemaVersion = FormDataSchemaVersion
	return json.Marshal(f)
}
