package validators

import (
	"strings"
	"unicode"
)

// NormalizeBRPhone reduces a Brazilian phone number to +55DDNNNNNNNNN. It accepts
// masks like "(11) 98765-4321" and an optional 55 country code. The second result is
// false when the digits cannot form a landline or mobile number.
func NormalizeBRPhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	if len(digits) != 10 && len(digits) != 11 {
		return "", false
	}

	// area codes start at 11
	if digits[0] == '0' || digits[1] == '0' {
		return "", false
	}
	// mobile numbers carry a leading 9 after the area code
	if len(digits) == 11 && digits[2] != '9' {
		return "", false
	}

	return "+55" + digits, true
}
