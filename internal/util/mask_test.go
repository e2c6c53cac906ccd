package util

import "testing"

func TestMaskToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "***"},
		{"12345678", "********"},
		{"tok-abcdef123456", "tok-**********56"},
	}
	for _, tc := range cases {
		if got := MaskToken(tc.in); got != tc.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	got := MaskKey("social:code:tok-abcdef123456")
	if got != "social:code:tok-**********56" {
		t.Errorf("MaskKey kept the wrong parts: %q", got)
	}
	if MaskKey("bare") != "****" {
		t.Errorf("MaskKey without namespace should fully mask short values")
	}
}
