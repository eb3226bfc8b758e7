package vorgang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFormData(t *testing.T) {
	raw := []byte(`{
		"schemaVersion": 1,
		"invoiceNumber": "2025-001",
		"invoiceTotal": "1499.00",
		"recipient": {"name": "Acme Ltd", "city": "Boston", "country": "USA"},
		"items": [{"description": "Pump housing", "tariff": "8413.91", "weight": "12.5", "value": "1499.00"}]
	}`)

	fd, err := DecodeFormData(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, fd.SchemaVersion)
	assert.Equal(t, "2025-001", fd.InvoiceNumber)
	assert.Equal(t, "Acme Ltd", fd.Recipient.Name)
	require.Len(t, fd.Items, 1)
	assert.Equal(t, "Pump housing", fd.Items[0].Description)
}

func TestDecodeFormData_RejectsUnknownVersion(t *testing.T) {
	_, err := DecodeFormData([]byte(`{"schemaVersion": 7, "invoiceNumber": "x"}`))
	assert.Error(t, err)
}

func TestDecodeFormData_RejectsInvalidJSON(t *testing.T) {
	_, err := DecodeFormData([]byte(`{"schemaVersion":`))
	assert.Error(t, err)
}

func TestFormDataEncode_StampsVersion(t *testing.T) {
	fd := &FormData{InvoiceNumber: "2025-002"}

	raw, err := fd.Encode()
	require.NoError(t, err)

	decoded, err := DecodeFormData(raw)
	require.NoError(t, err)
	assert.Equal(t, FormDataSchemaVersion, decoded.SchemaVersion)
	assert.Equal(t, "2025-002", decoded.InvoiceNumber)
}
