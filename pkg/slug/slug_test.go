package slug

import (
	"strings"
	"testing"
)

func TestDeriveShape(t *testing.T) {
	s := Derive("Brake Pad Set")

	parts := strings.Split(s, "-")
	suffix := parts[len(parts)-1]
	if len(suffix) != suffixLen {
		t.Errorf("expected %d-char suffix, got %q", suffixLen, suffix)
	}
	if !strings.HasPrefix(s, "brake_pad_set-") {
		t.Errorf("unexpected slug body: %q", s)
	}
}

func TestDeriveStripsDisallowed(t *testing.T) {
	s := Derive("Öl & Filter! (Premium)")

	body := s[:strings.LastIndex(s, "-")]
	for _, r := range body {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			t.Errorf("disallowed rune %q in slug %q", r, s)
		}
	}
}

func TestDeriveEmpty(t *testing.T) {
	if s := Derive(""); s != "" {
		t.Errorf("expected empty slug for empty name, got %q", s)
	}
}

func TestDeriveUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := Derive("same name")
		if seen[s] {
			t.Fatalf("suffix collision after %d derivations: %q", i, s)
		}
		seen[s] = true
	}
}

func TestNaturalKeyStable(t *testing.T) {
	if got := NaturalKey("  Brake   Pad Set "); got != "brake_pad_set" {
		t.Errorf("unexpected key %q", got)
	}
	if NaturalKey("brake pad set") != NaturalKey("Brake Pad SET") {
		t.Error("natural key should be case insensitive")
	}
	if NaturalKey("brake pad set") == NaturalKey("brake pad kit") {
		t.Error("different names must not share a key")
	}
}
