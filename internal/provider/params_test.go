package provider

import (
	"net/url"
	"testing"
)

func TestParams_CaseInsensitiveLookup(t *testing.T) {
	p := NewParams(map[string]string{"Code": "abc123", "STATE": "xyz"})

	cases := []struct{ key, want string }{
		{"code", "abc123"},
		{"Code", "abc123"},
		{"CODE", "abc123"},
		{"state", "xyz"},
		{"missing", ""},
	}
	for _, tc := range cases {
		if got := p.Get(tc.key); got != tc.want {
			t.Errorf("Get(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}

	if !p.Has("cOdE") {
		t.Errorf("Has should match case-insensitively")
	}
	if p.Has("nope") {
		t.Errorf("Has(nope) = true")
	}
}

func TestParams_CaseCollisionIsDeterministic(t *testing.T) {
	m := map[string]string{"Code": "upper", "code": "lower"}
	for i := 0; i < 20; i++ {
		p := NewParams(m)
		if got := p.Get("code"); got != "upper" {
			t.Fatalf("iteration %d: Get(code) = %q, want the lexicographically first key's value", i, got)
		}
	}
}

func TestFromValues_FirstValueWins(t *testing.T) {
	v, err := url.ParseQuery("code=first&code=second&state=s1")
	if err != nil {
		t.Fatal(err)
	}
	p := FromValues(v)
	if got := p.Get("code"); got != "first" {
		t.Errorf("Get(code) = %q, want first", got)
	}
	if got := p.Get("state"); got != "s1" {
		t.Errorf("Get(state) = %q", got)
	}
}

func TestParams_EmptyValueStillPresent(t *testing.T) {
	p := NewParams(map[string]string{"error": ""})
	if !p.Has("error") {
		t.Errorf("empty-valued key should report present")
	}
	if p.Get("error") != "" {
		t.Errorf("Get should return empty string")
	}
}
