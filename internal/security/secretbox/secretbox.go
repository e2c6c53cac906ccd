// Package secretbox encrypts small secrets at rest with AES-256-GCM.
//
// The master key comes from SECRETBOX_MASTER_KEY and is loaded once. The
// wire format is base64(nonce)|base64(ciphertext) so values survive YAML
// files and environment variables untouched.
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	envVar            = "SECRETBOX_MASTER_KEY"
	nonceSizeGCM      = 12  // 96-bit nonce, the GCM recommendation
	requiredKeyLength = 32  // AES-256
	sep               = "|" // nonce|ciphertext, both base64
)

var (
	masterKey     []byte
	masterKeyOnce sync.Once
	loadErr       error
	mu            sync.RWMutex
)

// ensureLoaded reads the master key from SECRETBOX_MASTER_KEY exactly once.
func ensureLoaded() error {
	masterKeyOnce.Do(func() {
		raw := strings.TrimSpace(os.Getenv(envVar))
		if raw == "" {
			loadErr = fmt.Errorf("%s not set; generate one with: openssl rand -base64 32", envVar)
			return
		}
		k, err := decodeKey(raw)
		if err != nil {
			loadErr = fmt.Errorf("decode %s: %w", envVar, err)
			return
		}
		mu.Lock()
		masterKey = k
		mu.Unlock()
	})
	return loadErr
}

// decodeKey accepts the key as std base64, raw base64, hex, or raw bytes.
// All forms must decode to exactly 32 bytes.
func decodeKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)

	if b, err := base64.StdEncoding.DecodeString(key); err == nil && len(b) == requiredKeyLength {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(key); err == nil && len(b) == requiredKeyLength {
		return b, nil
	}
	if len(key) == 2*requiredKeyLength {
		if h, err := hex.DecodeString(key); err == nil {
			return h, nil
		}
	}
	if len(key) == requiredKeyLength {
		return []byte(key), nil
	}
	return nil, fmt.Errorf("key must decode to %d bytes", requiredKeyLength)
}

// Ready reports whether the master key is loaded. Handy for readiness checks
// and config dumps that must not block on a missing key.
func Ready() bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(masterKey) == requiredKeyLength
}

// Encrypt seals plainText and returns base64(nonce)|base64(ciphertext).
func Encrypt(plainText string) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}
	mu.RLock()
	key := append([]byte(nil), masterKey...)
	mu.RUnlock()
	return encryptWith(key, plainText)
}

// Decrypt opens base64(nonce)|base64(ciphertext) produced by Encrypt.
func Decrypt(cipherText string) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}
	mu.RLock()
	key := append([]byte(nil), masterKey...)
	mu.RUnlock()
	return decryptWith(key, cipherText)
}

// DecryptWithKey opens a sealed value with an explicit key instead of the
// process-wide one. The CLI uses it to inspect values offline.
func DecryptWithKey(key, cipherText string) (string, error) {
	k, err := decodeKey(key)
	if err != nil {
		return "", err
	}
	return decryptWith(k, cipherText)
}

func encryptWith(key []byte, plainText string) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceSizeGCM)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce random: %w", err)
	}
	ct := aesgcm.Seal(nil, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(nonce) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

func decryptWith(key []byte, cipherText string) (string, error) {
	parts := strings.Split(cipherText, sep)
	if len(parts) != 2 {
		return "", errors.New("bad format: want base64(nonce)|base64(ciphertext)")
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(nonce) != nonceSizeGCM {
		return "", fmt.Errorf("bad nonce: want %d bytes, got %d", nonceSizeGCM, len(nonce))
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	pt, err := aesgcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("gcm auth/decrypt: %w", err)
	}
	return string(pt), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return aesgcm, nil
}

// --- test helpers ---

// UnsafeResetForTests clears all loaded state. Tests only.
func UnsafeResetForTests() {
	mu.Lock()
	masterKey = nil
	mu.Unlock()
	masterKeyOnce = sync.Once{}
	loadErr = nil
}

// UnsafeSetMasterKeyForTests installs a raw 32-byte key. Tests only.
func UnsafeSetMasterKeyForTests(k []byte) error {
	if len(k) != requiredKeyLength {
		return fmt.Errorf("test key must be %d bytes", requiredKeyLength)
	}
	UnsafeResetForTests()
	mu.Lock()
	masterKey = append([]byte(nil), k...)
	mu.Unlock()
	// Burn the once so ensureLoaded does not consult the environment.
	masterKeyOnce.Do(func() {})
	return nil
}
