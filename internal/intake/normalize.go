// Package intake holds the validation and completeness rules for a
// workers' compensation claim draft: field normalizers and validators, the
// requirement rule set, the completeness score, the submission gate, and
// the payload handed to whatever layer records a submitted claim.
package intake

import "strings"

// NormalizeSSN strips non-digits and re-inserts dashes as digits
// accumulate: "123" → "123", "1234" → "123-4", "123456" → "123-45-6".
// Digits past the ninth are dropped.
func NormalizeSSN(raw string) string {
	d := digitsOnly(raw)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 5:
		return d[:3] + "-" + d[3:]
	case len(d) > 9:
		d = d[:9]
	}
	return d[:3] + "-" + d[3:5] + "-" + d[5:]
}

// NormalizeFEIN strips non-digits and inserts the dash only once exactly
// nine digits are present ("##-#######"). Any other digit count comes back
// bare. Unlike NormalizeSSN there is no partial formatting and no
// truncation.
func NormalizeFEIN(raw string) string {
	d := digitsOnly(raw)
	if len(d) != 9 {
		return d
	}
	return d[:2] + "-" + d[2:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
