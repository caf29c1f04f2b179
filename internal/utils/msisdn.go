package utils

import (
	"strings"
)

// countryCodePrefix is stripped from the front of a candidate only when the
// remainder is exactly 10 digits.
const countryCodePrefix = "91"

// validFirstDigits is the prefix set a canonical 10-digit number must start
// with. Numbers starting 0-5 are never dialable inventory.
var validFirstDigits = map[byte]bool{
	'6': true,
	'7': true,
	'8': true,
	'9': true,
}

// NormalizeMSISDN reduces a raw input to the canonical 10-digit form used as
// the pool's primary key. It returns the canonical number, or an empty string
// plus a human-readable rejection reason. It never panics and is the single
// source of truth for what counts as a valid number; both the single-create
// and bulk paths go through here.
func NormalizeMSISDN(raw string) (string, string) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", "number is empty"
	}

	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.TrimPrefix(cleaned, "+")

	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] < '0' || cleaned[i] > '9' {
			return "", "number contains non-numeric characters"
		}
	}

	// Strip the country code only when doing so leaves a full local number.
	if len(cleaned) == len(countryCodePrefix)+10 && strings.HasPrefix(cleaned, countryCodePrefix) {
		cleaned = cleaned[len(countryCodePrefix):]
	}

	if len(cleaned) != 10 {
		return "", "number must be 10 digits"
	}
	if !validFirstDigits[cleaned[0]] {
		return "", "number must start with 6, 7, 8 or 9"
	}

	return cleaned, ""
}

// MaskNumber masks a number for logging (first 3 and last 3 digits kept)
func MaskNumber(number string) string {
	if len(number) > 6 {
		return number[:3] + "****" + number[len(number)-3:]
	}
	return "****"
}
