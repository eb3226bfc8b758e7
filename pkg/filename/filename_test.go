package filename

import (
	"strings"
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name",
			input:    "Acme",
			expected: "Acme",
		},
		{
			name:     "whitespace collapsed to hyphen",
			input:    "Acme  Ltd",
			expected: "Acme-Ltd",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Acme Ltd  ",
			expected: "Acme-Ltd",
		},
		{
			name:     "disallowed characters stripped",
			input:    "Müller & Söhne GmbH",
			expected: "Mller--Shne-GmbH",
		},
		{
			name:     "slashes and dots stripped",
			input:    "RE/2025.001",
			expected: "RE2025001",
		},
		{
			name:     "empty input falls back",
			input:    "",
			expected: Fallback,
		},
		{
			name:     "only disallowed characters falls back",
			input:    "§$%&!",
			expected: Fallback,
		},
		{
			name:     "allowed punctuation kept",
			input:    "2025-001_A",
			expected: "2025-001_A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"Acme Ltd", "Müller & Söhne", "", "2025-001", "  a  b  "}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestBuildAt(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kind     Kind
		kunde    string
		rechnung string
		mrn      string
		expected string
	}{
		{
			name:     "rechnung",
			kind:     KindRechnung,
			kunde:    "Acme Ltd",
			rechnung: "2025-001",
			expected: "Rg_Acme-Ltd_2025-001.pdf",
		},
		{
			name:     "abd without mrn",
			kind:     KindABD,
			kunde:    "Acme Ltd",
			rechnung: "2025-001",
			expected: "ABD_Acme-Ltd_2025-001.pdf",
		},
		{
			name:     "abd with mrn",
			kind:     KindABD,
			kunde:    "Acme Ltd",
			rechnung: "2025-001",
			mrn:      "25DE123456789012A1",
			expected: "ABD_Acme-Ltd_2025-001_25DE123456789012A1.pdf",
		},
		{
			name:     "agv with mrn",
			kind:     KindAGV,
			kunde:    "Acme Ltd",
			rechnung: "2025-001",
			mrn:      "25DE123456789012A1",
			expected: "AGV_Acme-Ltd_2025-001_25DE123456789012A1.pdf",
		},
		{
			name:     "atlas with invoice",
			kind:     KindAtlas,
			kunde:    "Acme Ltd",
			rechnung: "2025-001",
			expected: "Atlas_Acme-Ltd_2025-001.pdf",
		},
		{
			name:     "atlas falls back to date without invoice",
			kind:     KindAtlas,
			kunde:    "Acme Ltd",
			expected: "Atlas_Acme-Ltd_2025_06_14.pdf",
		},
		{
			name:     "empty customer uses placeholder",
			kind:     KindRechnung,
			rechnung: "2025-001",
			expected: "Rg_Unbekannt_2025-001.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildAt(tt.kind, tt.kunde, tt.rechnung, tt.mrn, now)
			if got != tt.expected {
				t.Errorf("BuildAt() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildAt_Deterministic(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	first := BuildAt(KindABD, "Acme Ltd", "2025-001", "25DE1", now)
	second := BuildAt(KindABD, "Acme Ltd", "2025-001", "25DE1", now)
	if first != second {
		t.Errorf("BuildAt not deterministic: %q != %q", first, second)
	}
}

func TestBuildAt_PrefixMatchesKind(t *testing.T) {
	now := time.Now()
	for _, kind := range Kinds {
		name := BuildAt(kind, "Acme", "2025-001", "", now)
		if !strings.HasPrefix(name, Prefix(kind)) {
			t.Errorf("filename %q for kind %s missing prefix %q", name, kind, Prefix(kind))
		}
	}
}

func TestKindValid(t *testing.T) {
	for _, kind := range Kinds {
		if !kind.Valid() {
			t.Errorf("expected kind %s to be valid", kind)
		}
	}
	if Kind("invoice").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}
