package seal

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, KeySize)
	s, err := New(key)
	if err != nil {
		t.Fatal(err)
	}

	plain := []byte(`{"provider":"facebook","ok":true}`)
	box, err := s.Seal(plain)
	if err != nil {
		t.Fatalf("Seal err: %v", err)
	}
	if bytes.Contains(box, plain) {
		t.Fatalf("sealed box leaks plaintext")
	}

	got, err := s.Open(box)
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestOpen_RejectsTamperAndWrongKey(t *testing.T) {
	s1, _ := New(bytes.Repeat([]byte{1}, KeySize))
	s2, _ := New(bytes.Repeat([]byte{2}, KeySize))

	box, err := s1.Seal([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}

	tampered := append([]byte(nil), box...)
	tampered[len(tampered)-1] ^= 0x01
	if _, err := s1.Open(tampered); !errors.Is(err, ErrOpen) {
		t.Fatalf("tampered box: want ErrOpen, got %v", err)
	}

	if _, err := s2.Open(box); !errors.Is(err, ErrOpen) {
		t.Fatalf("wrong key: want ErrOpen, got %v", err)
	}

	if _, err := s1.Open([]byte("short")); !errors.Is(err, ErrOpen) {
		t.Fatalf("short box: want ErrOpen, got %v", err)
	}
}

func TestNew_RejectsBadKeySize(t *testing.T) {
	if _, err := New([]byte("short")); err == nil {
		t.Fatalf("expected error for short key")
	}
}
