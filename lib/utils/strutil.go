package utils

import (
	"math"
	"strings"
)

const spaceChars = " \t\n\v\f\r"

// Trim strips ASCII whitespace from both ends of s.
func Trim(s string) string {
	return strings.Trim(s, spaceChars)
}

// IsDigits reports whether s consists only of decimal digits.
// An empty string is treated as digits.
func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsXDigits reports whether s consists only of hexadecimal digits.
func IsXDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			continue
		}
		return false
	}
	return true
}

// ParseInt reads a leading decimal integer the way strtoll does:
// leading whitespace and one sign are accepted, parsing stops at the
// first non digit. No digits or overflow yields 0.
func ParseInt(s string) int64 {
	i := 0
	for i < len(s) && strings.IndexByte(spaceChars, s[i]) >= 0 {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	start := i
	var v uint64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		v = v*10 + uint64(s[i]-'0')
		if v > math.MaxInt64+1 {
			return 0
		}
	}
	if i == start {
		return 0
	}

	if neg {
		return -int64(v)
	}
	if v > math.MaxInt64 {
		return 0
	}
	return int64(v)
}

// InArray reports whether needle is one of haystack.
func InArray(needle string, haystack ...string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
