// Package hostname allocates and resolves the workspace subdomains used in hosted deployments.
package hostname

import (
	"fmt"
	"strings"
)

const (
	// MaxBaseLength bounds a normalized hostname before any suffix is appended.
	MaxBaseLength = 20
	// MaxLength bounds a hostname including its suffix.
	MaxLength = 25
	// SuffixSpace is the number of distinct 3-digit suffixes.
	SuffixSpace = 1000
)

// Normalize derives a base hostname from a workspace name or a requested hostname.
// The result is lower-case and at most MaxBaseLength long. Besides [a-z0-9] it deliberately
// keeps single inner hyphens, so "acme-corp" survives where a strict alphanumeric rule would
// give "acmecorp"; runs of hyphens collapse and edge hyphens drop. Names without hyphens
// reduce to their lower-case alphanumerics. The result is empty when name has no [a-z0-9].
func Normalize(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-':
			pendingDash = true
		}
		if b.Len() >= MaxBaseLength {
			break
		}
	}
	out := b.String()
	if len(out) > MaxBaseLength {
		out = out[:MaxBaseLength]
	}
	return strings.TrimRight(out, "-")
}

// WithSuffix appends a zero-padded 3-digit suffix to base as "base-NNN", truncated to MaxLength.
func WithSuffix(base string, n int) string {
	h := fmt.Sprintf("%s-%03d", base, n%SuffixSpace)
	if len(h) > MaxLength {
		h = h[:MaxLength]
	}
	return h
}
