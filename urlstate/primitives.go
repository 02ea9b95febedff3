package urlstate

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Booleans
// ============================================================

// FormatBool returns "1" for true and "0" for false.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseBool returns def when the value is absent, otherwise whether it is "1".
func ParseBool(value string, present, def bool) bool {
	if !present {
		return def
	}
	return value == "1"
}

// BoolParam reads a boolean parameter.
func BoolParam(p Params, key string, def bool) bool {
	v, ok := p.Get(key)
	return ParseBool(v, ok, def)
}

// ============================================================
// Numbers
// ============================================================

// FormatNumber returns the shortest decimal form of f. -0 formats as "0".
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber returns def when the value is absent, empty, or not a finite
// number.
func ParseNumber(value string, present bool, def float64) float64 {
	if !present {
		return def
	}
	s := strings.TrimSpace(value)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// NumberParam reads a numeric parameter.
func NumberParam(p Params, key string, def float64) float64 {
	v, ok := p.Get(key)
	return ParseNumber(v, ok, def)
}

// ParseInt is ParseNumber restricted to integers that fit in an int.
func ParseInt(value string, present bool, def int) int {
	if !present {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}

// IntParam reads an integer parameter.
func IntParam(p Params, key string, def int) int {
	v, ok := p.Get(key)
	return ParseInt(v, ok, def)
}

// ============================================================
// Strings
// ============================================================

// StringParam returns the parameter value, or def when it is absent. A
// present but empty value stays empty.
func StringParam(p Params, key string, def string) string {
	v, ok := p.Get(key)
	if !ok {
		return def
	}
	return v
}
