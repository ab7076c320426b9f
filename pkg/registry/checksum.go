package registry

import "strings"

const (
	// ChecksumIDTag names the 11-digit national identifier validator.
	ChecksumIDTag = "checksum-id"

	// ChecksumIDFormat is the punctuated layout users are shown on rejection.
	ChecksumIDFormat = "000.000.000-00"

	checksumIDLen = 11
)

// ChecksumID validates an 11-digit national identifier carrying two mod-11 check digits.
// Dots, dashes, slashes and spaces are accepted as separators; any other non-digit
// rejects the input. The normalized form is the bare digit string.
func ChecksumID(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '/', r == ' ':
		default:
			return "", false
		}
	}

	digits := b.String()
	if len(digits) != checksumIDLen {
		return "", false
	}
	if strings.Count(digits, digits[:1]) == checksumIDLen {
		return "", false
	}

	d := make([]int, checksumIDLen)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	if checkDigit(d[:9]) != d[9] || checkDigit(d[:10]) != d[10] {
		return "", false
	}
	return digits, true
}

// checkDigit weighs the digits from len+1 down to 2 and folds the sum mod 11.
func checkDigit(d []int) int {
	sum := 0
	weight := len(d) + 1
	for _, v := range d {
		sum += v * weight
		weight--
	}
	r := sum * 10 % 11
	if r == 10 {
		return 0
	}
	return r
}
