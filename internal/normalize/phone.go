package normalize

import "strings"

// NormalizePhone reduces a phone number to "+<digits>". A leading "00" is read as
// the international prefix; numbers without one get defaultCountryCode.
// Normalizing an already normalized number returns it unchanged.
func NormalizePhone(raw, defaultCountryCode string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	international := strings.HasPrefix(raw, "+")
	digits := Digits(raw)
	if digits == "" {
		return ""
	}

	if !international && strings.HasPrefix(digits, "00") {
		international = true
		digits = digits[2:]
	}
	if international {
		return "+" + digits
	}

	cc := Digits(defaultCountryCode)
	return "+" + cc + digits
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
