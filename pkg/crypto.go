package pkg

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	SecretKeySize = 32
	NonceSize     = 24
)

var ErrSealedDataInvalid = errors.New("sealed data invalid")

type SecretKey [SecretKeySize]byte

// DeriveKey stretches a configured secret into a box key. Different info
// values give independent keys for the same secret.
func DeriveKey(secret []byte, info string) (SecretKey, error) {
	var key SecretKey
	if len(secret) == 0 {
		return key, errors.New("derive key: empty secret")
	}

	kdf := hkdf.New(sha256.New, secret, nil, []byte(info))
	if _, err := io.ReadFull(kdf, key[:]); err != nil {
		return key, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func RandomNonce() ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nonce, fmt.Errorf("read nonce: %w", err)
	}
	return nonce, nil
}

// Seal returns nonce || secretbox(plaintext).
func Seal(key SecretKey, nonce [NonceSize]byte, plaintext []byte) []byte {
	k := [SecretKeySize]byte(key)
	return secretbox.Seal(nonce[:], plaintext, &nonce, &k)
}

func Open(key SecretKey, sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+secretbox.Overhead {
		return nil, ErrSealedDataInvalid
	}

	var nonce [NonceSize]byte
	copy(nonce[:], sealed[:NonceSize])

	k := [SecretKeySize]byte(key)
	plaintext, ok := secretbox.Open(nil, sealed[NonceSize:], &nonce, &k)
	if !ok {
		return nil, ErrSealedDataInvalid
	}
	return plaintext, nil
}
