package provider

import (
	"net/url"
	"sort"
	"strings"
)

// Params holds callback parameters with case-insensitive keys. Upstreams are
// not consistent about parameter casing ("code" vs "Code"), so lookups
// normalize and so does construction.
type Params map[string]string

// NewParams builds Params from a plain map. Keys are lowercased; when two
// keys collide after lowercasing, the lexicographically smaller original key
// wins so the result is deterministic.
func NewParams(m map[string]string) Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Params, len(m))
	for _, k := range keys {
		ck := strings.ToLower(k)
		if _, exists := p[ck]; !exists {
			p[ck] = m[k]
		}
	}
	return p
}

// FromValues flattens parsed query values into Params. For a repeated key the
// first value wins; case collisions resolve like NewParams.
func FromValues(v url.Values) Params {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Params, len(v))
	for _, k := range keys {
		vals := v[k]
		if len(vals) == 0 {
			continue
		}
		ck := strings.ToLower(k)
		if _, exists := p[ck]; !exists {
			p[ck] = vals[0]
		}
	}
	return p
}

// Get returns the value for key, looked up case-insensitively. Absent keys
// return the empty string.
func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

// Has reports whether key is present, even with an empty value.
func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}
