package provider

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	name   string
	builds int
}

func (f *fakeProvider) Name() string                   { return f.name }
func (f *fakeProvider) AuthorizeURL(state string) string { return "https://example.test/auth?state=" + state }
func (f *fakeProvider) Validate() error                { return nil }
func (f *fakeProvider) AuthenticateClient(ctx context.Context, p Params, expectedState string) *AuthenticatedClient {
	return nil
}

func TestRegistry_GetBuildsOnceAndCaches(t *testing.T) {
	r := NewRegistry()
	builds := 0
	r.RegisterFactory("fake", func(cfg Config) (Provider, error) {
		builds++
		return &fakeProvider{name: "fake"}, nil
	})

	p1, err := r.Get("fake", Config{})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := r.Get("fake", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Fatalf("expected cached instance on second Get")
	}
	if builds != 1 {
		t.Fatalf("factory ran %d times, want 1", builds)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope", Config{})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("want ErrUnknownProvider, got %v", err)
	}
}

func TestRegistry_InvalidateForcesRebuild(t *testing.T) {
	r := NewRegistry()
	builds := 0
	r.RegisterFactory("fake", func(cfg Config) (Provider, error) {
		builds++
		return &fakeProvider{name: "fake"}, nil
	})

	if _, err := r.Get("fake", Config{}); err != nil {
		t.Fatal(err)
	}
	r.Invalidate("fake")
	if _, err := r.Get("fake", Config{}); err != nil {
		t.Fatal(err)
	}
	if builds != 2 {
		t.Fatalf("factory ran %d times after invalidate, want 2", builds)
	}
}

func TestRegistry_AvailableSorted(t *testing.T) {
	r := NewRegistry()
	factory := func(cfg Config) (Provider, error) { return &fakeProvider{}, nil }
	r.RegisterFactory("zeta", factory)
	r.RegisterFactory("alpha", factory)

	got := r.Available()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Fatalf("Available() = %v", got)
	}
}
