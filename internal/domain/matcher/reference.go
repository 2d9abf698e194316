package matcher

import (
	"strings"
	"unicode"
)

// noneLiteral is what some exports write for a missing reference
const noneLiteral = "None"

// NormalizeReference canonicalizes a reference number for equality checks.
// It reports false when ref is absent or normalizes to nothing.
func NormalizeReference(ref *string) (string, bool) {
	if ref == nil {
		return "", false
	}
	return NormalizeReferenceString(*ref)
}

// NormalizeReferenceString removes whitespace, upper-cases and strips
// leading zeros, so "rf 0012 34" and "RF001234" compare equal only when
// they share the same significant characters.
func NormalizeReferenceString(ref string) (string, bool) {
	if ref == "" || ref == noneLiteral {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(ref))
	for _, r := range ref {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	normalized := strings.TrimLeft(strings.ToUpper(b.String()), "0")
	if normalized == "" {
		return "", false
	}
	return normalized, true
}
