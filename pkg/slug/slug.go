// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	suffixLen      = 4
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^\w-]`)
)

// Derive builds a slug from a display name: lower-cased, whitespace runs
// collapsed to underscores, everything outside [\w-] stripped, then a random
// 4-character base-36 suffix appended. The suffix keeps slugs from colliding
// without a unique constraint on the column; it is a display artifact, true
// uniqueness lives on the natural key.
func Derive(name string) string {
	if name == "" {
		return ""
	}

	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = disallowed.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")

	return s + "-" + randomSuffix()
}

// NaturalKey returns the slug of a name without the random suffix. Uniqueness
// checks over soft-deleted rows key on it, not on the cosmetic slug.
func NaturalKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = disallowed.ReplaceAllString(s, "")
	return strings.Trim(s, "-")
}

func randomSuffix() string {
	// uuid gives 16 bytes of crypto-grade entropy, more than enough for 4 chars
	raw := uuid.New()
	buf := make([]byte, suffixLen)
	for i := 0; i < suffixLen; i++ {
		buf[i] = base36Alphabet[int(raw[i])%len(base36Alphabet)]
	}
	return string(buf)
}
