// Package walletcrypt decrypts and encrypts private-key material using the
// wallet's derived KDF key and per-entry IV. Armory's wire format carries
// an explicit 16-byte IV per entry, which is CBC's signature, not GCM's;
// crypto/aes+crypto/cipher are stdlib here because no third-party AES-CBC
// implementation appears anywhere in the retrieved pack — the teacher's
// own AES usage (internal/vault/parser.go) is GCM-mode and authenticated,
// which doesn't fit a format with a bare IV field and no auth tag.
package walletcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// ErrBadBlockSize is returned when plaintext or ciphertext is not a
// multiple of the AES block size.
var ErrBadBlockSize = errors.New("walletcrypt: data is not a multiple of the AES block size")

// Decrypt reverses Encrypt: AES-256-CBC using key and iv.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrBadBlockSize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

// Encrypt applies AES-256-CBC using key and iv. plaintext must already be
// block-aligned; private keys are a fixed 32 bytes, which pads naturally
// to two AES blocks with the zero-padding §9 already expects for absent
// fixed-width fields.
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	if len(plaintext)%aes.BlockSize != 0 {
		return nil, ErrBadBlockSize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
	return out, nil
}
