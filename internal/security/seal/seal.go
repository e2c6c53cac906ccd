// Package seal protects byte payloads at rest with NaCl secretbox
// (XSalsa20-Poly1305). The result service uses it so authentication
// outcomes parked in a shared cache are opaque to anything that can
// read the cache but not the key.
package seal

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the secretbox key length in bytes.
	KeySize = 32

	nonceSize = 24
)

// ErrOpen means the box was tampered with or sealed under another key.
var ErrOpen = errors.New("seal: cannot open box")

// Sealer seals and opens payloads under a fixed symmetric key.
type Sealer struct {
	key [KeySize]byte
}

// New builds a Sealer from a raw 32-byte key.
func New(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("seal: key must be %d bytes, got %d", KeySize, len(key))
	}
	s := &Sealer{}
	copy(s.key[:], key)
	return s, nil
}

// Seal returns nonce||box for plain. Each call draws a fresh nonce.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("seal: nonce random: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

// Open reverses Seal. It returns ErrOpen on any authentication failure.
func (s *Sealer) Open(box []byte) ([]byte, error) {
	if len(box) < nonceSize {
		return nil, ErrOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrOpen
	}
	return plain, nil
}
