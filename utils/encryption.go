// utils/encryption.go
package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"os"
)

// Member passwords are stored reversibly because the admin panel and the
// welcome mail surface them back in plain text. Every read goes through
// RevealPassword so access stays in one audited place.

func passwordKey() ([]byte, error) {
	key := os.Getenv("PASSWORD_ENC_KEY")
	if key == "" {
		return nil, errors.New("PASSWORD_ENC_KEY environment variable is required")
	}
	// Derive a fixed 32-byte key from whatever was configured
	sum := sha256.Sum256([]byte(key))
	return sum[:], nil
}

// EncryptPassword encrypts a plain-text member password with AES-GCM and
// returns it base64 encoded
func EncryptPassword(plain string) (string, error) {
	key, err := passwordKey()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// RevealPassword decrypts a stored member password. Callers are expected
// to log the reason for access via the audit log line emitted here.
func RevealPassword(encrypted, memberID, reason string) (string, error) {
	key, err := passwordKey()
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", errors.New("stored password is not valid base64")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(raw) < gcm.NonceSize() {
		return "", errors.New("stored password is truncated")
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.New("stored password could not be decrypted")
	}

	log.Printf("password revealed for member %s (%s)", memberID, reason)
	return string(plain), nil
}

// SecureCompare checks two secrets in constant time
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
