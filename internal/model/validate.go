package model

import (
	"regexp"
	"strings"
)

var (
	emailShape   = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)+$`)
	phoneShape   = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	zipShape     = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	orderIDShape = regexp.MustCompile(`^\d{6,}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// Valid reports whether v is an acceptable value for f. NA is never valid;
// callers decide separately whether a field may stay unset.
func Valid(f Field, v string) bool {
	if v == "" || v == NA {
		return false
	}
	switch f {
	case FieldEmail:
		return emailShape.MatchString(v)
	case FieldPhone:
		return phoneShape.MatchString(v)
	case FieldZipCode:
		return zipShape.MatchString(v)
	case FieldOrderID:
		return orderIDShape.MatchString(v)
	case FieldCustomerName:
		return len(v) <= 30 && !strings.ContainsAny(v, "0123456789")
	}
	return false
}

// NormalizePhone reduces any phone-looking string to the canonical
// XXX-XXX-XXXX form. Inputs that do not contain exactly ten digits
// (after stripping a leading US country code) normalize to NA.
func NormalizePhone(v string) string {
	digits := nonDigit.ReplaceAllString(v, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return NA
	}
	return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
}

// Normalize coerces a candidate value into the canonical form for f,
// returning NA when the value cannot be made valid. Model output and
// dataset scenario values pass through here before they are trusted.
func Normalize(f Field, v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, NA) || strings.EqualFold(v, "none") || strings.EqualFold(v, "null") {
		return NA
	}
	switch f {
	case FieldPhone:
		return NormalizePhone(v)
	case FieldZipCode:
		// Zip values sometimes arrive with trailing punctuation.
		v = strings.Trim(v, ".,")
	}
	if !Valid(f, v) {
		return NA
	}
	return v
}
