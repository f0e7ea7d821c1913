package lib

import "strings"

// NormalizePhone reduces a free-form phone number to the digits expected by the messaging bridge.
// A national number with a single trunk zero (0612345678) gets the country calling code,
// an international 00 prefix is dropped. An empty result means the input had no digits.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "00"):
		return digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		return countryCode + digits[1:]
	}
	return digits
}
