package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func decode(t *testing.T, value string) uuid.UUID {
	t.Helper()
	raw, err := encoding.DecodeString(strings.ToUpper(value))
	if err != nil {
		t.Fatalf("decode %q: %v", value, err)
	}
	parsed, err := uuid.FromBytes(raw)
	if err != nil {
		t.Fatalf("uuid from %q: %v", value, err)
	}
	return parsed
}

func TestNewIDIsLowercaseBase32(t *testing.T) {
	value, err := NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if len(value) != 26 {
		t.Fatalf("len = %d, want 26", len(value))
	}
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			t.Fatalf("id %q has character %q", value, r)
		}
	}
	parsed := decode(t, value)
	if parsed.Version() != 4 || parsed.Variant() != uuid.RFC4122 {
		t.Fatalf("uuid = %s version %d variant %s", parsed, parsed.Version(), parsed.Variant())
	}
}

func TestNewIDMintsDistinctCompetitorKeys(t *testing.T) {
	// A roster is keyed by id or bib, so minted ids must never repeat and
	// never look like a bib number.
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		value, err := NewID()
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if seen[value] {
			t.Fatalf("duplicate id %q after %d draws", value, i)
		}
		seen[value] = true
		if strings.Trim(value, "234567") == "" {
			t.Fatalf("id %q is all digits", value)
		}
	}
}
