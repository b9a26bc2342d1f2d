package models

import (
	"regexp"
	"strings"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var (
	// \s only covers ASCII whitespace, \p{Zs} adds no-break and other Unicode spaces
	phoneNumberPattern = regexp.MustCompile(`^[\d\s\p{Zs}\-\(\)\+]+$`)
	nonDigitPattern    = regexp.MustCompile(`\D`)
)

// PhoneNumber is a validated phone number held in its normalized, digits-only form.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber validates raw and returns its normalized form.
// Digits, whitespace (Unicode space separators included), hyphens,
// parentheses and plus signs are accepted, and the number must contain
// between 10 and 15 digits.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	if !phoneNumberPattern.MatchString(raw) {
		return PhoneNumber{}, ErrInvalidPhoneNumber
	}

	digits := NormalizePhoneNumber(raw)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return PhoneNumber{}, ErrInvalidPhoneNumber
	}

	return PhoneNumber{value: digits}, nil
}

// NormalizePhoneNumber strips every non-digit character from raw
func NormalizePhoneNumber(raw string) string {
	return nonDigitPattern.ReplaceAllString(raw, "")
}

// String returns the normalized digits
func (p PhoneNumber) String() string {
	return p.value
}

// Format returns the number for display
func (p PhoneNumber) Format() string {
	return FormatPhoneNumber(p.value)
}

// FormatPhoneNumber renders a normalized number as (XXX) XXX-XXXX when it has
// exactly 10 digits and returns it unchanged otherwise.
func FormatPhoneNumber(digits string) string {
	if len(digits) != 10 {
		return digits
	}

	var b strings.Builder
	b.WriteString("(")
	b.WriteString(digits[:3])
	b.WriteString(") ")
	b.WriteString(digits[3:6])
	b.WriteString("-")
	b.WriteString(digits[6:])
	return b.String()
}
