package urlstate

import (
	"math"
	"strconv"
	"strings"
)

// SplitFields splits one record into at most count fields. Separators after
// the (count-1)th are left inside the last field, so surplus delimiters can
// never shift a field out of position. Records longer than MaxRecordLength
// are rejected before any scanning.
func SplitFields(raw, sep string, count int) ([]string, bool) {
	if len(raw) > MaxRecordLength || sep == "" || count < 1 {
		return nil, false
	}
	return strings.SplitN(raw, sep, count), true
}

// LeadingInt parses the integer prefix of s: optional leading whitespace, an
// optional sign and at least one digit. Anything after the digits is ignored.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, false
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseCoord parses a coordinate with LeadingInt and rejects values that
// RoundCoord could not format back.
func ParseCoord(s string) (int, bool) {
	n, ok := LeadingInt(s)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return n, true
}

// StrictCoord is StrictInt limited to the range ParseCoord accepts.
func StrictCoord(s string) (int, bool) {
	n, ok := StrictInt(s)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return n, true
}

// LeadingNumber parses the decimal prefix of s: optional leading
// whitespace, an optional sign, digits and an optional fraction. Exponents
// are not read. Anything after the number is ignored.
func LeadingNumber(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	j := 0
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	digits := 0
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
		digits++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:j], 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// StrictInt parses s as an optionally negative run of decimal digits with
// nothing else around it.
func StrictInt(s string) (int, bool) {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RoundCoord rounds a coordinate to the nearest integer, halves away from
// zero. NaN and infinities become 0.
func RoundCoord(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	r := math.Round(f)
	if r > math.MaxInt32 || r < math.MinInt32 {
		return 0
	}
	return int(r)
}

// FormatCoord formats a coordinate as a rounded integer.
func FormatCoord(f float64) string {
	return strconv.Itoa(RoundCoord(f))
}
