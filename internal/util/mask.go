package util

import "strings"

// MaskToken redacts a credential for logs keeping only a short prefix and
// suffix. Short values are fully masked so nothing useful leaks.
func MaskToken(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-6) + s[len(s)-2:]
}

// MaskKey redacts a cache or store key that may embed a one-time code.
// It keeps the namespace prefix (up to the last ':') and masks the rest.
func MaskKey(k string) string {
	i := strings.LastIndexByte(k, ':')
	if i < 0 {
		return MaskToken(k)
	}
	return k[:i+1] + MaskToken(k[i+1:])
}
