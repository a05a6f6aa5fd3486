// Package hexdata provides hex-string helpers for bytecode and address handling.
package hexdata

import "strings"

// Normalize lowercases a hex string and ensures it carries a 0x prefix.
// An empty input normalizes to "0x".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}

// HasCode reports whether a hex string holds any bytes beyond the 0x prefix.
// A bare "0x" (or empty string) means no code.
func HasCode(s string) bool {
	return len(Normalize(s)) > 2
}

// IsAddress reports whether s looks like a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return isHexString(s, 42)
}

// IsHash reports whether s looks like a 0x-prefixed 32-byte hex hash.
func IsHash(s string) bool {
	return isHexString(s, 66)
}

func isHexString(s string, length int) bool {
	if len(s) != length || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return true
}
