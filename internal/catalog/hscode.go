package catalog

import (
	"errors"
	"strings"
)

// HSCodeDigits is the number of digits in a full customs code.
const HSCodeDigits = 12

// ErrInvalidHSCode is returned for codes that do not contain exactly 12 digits.
var ErrInvalidHSCode = errors.New("HS code must contain exactly 12 digits")

// NormalizeHSCode strips everything but ASCII digits and checks the length.
func NormalizeHSCode(code string) (string, error) {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != HSCodeDigits {
		return "", ErrInvalidHSCode
	}
	return digits, nil
}

// FormatHSCode renders a code as ####.##.##.##.##.
func FormatHSCode(code string) (string, error) {
	d, err := NormalizeHSCode(code)
	if err != nil {
		return "", err
	}
	return d[0:4] + "." + d[4:6] + "." + d[6:8] + "." + d[8:10] + "." + d[10:12], nil
}
