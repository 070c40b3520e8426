package walletcrypt

import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	iv := bytes.Repeat([]byte{0x24}, 16)
	plaintext := bytes.Repeat([]byte{0x01}, 32)

	ciphertext, err := Encrypt(key, iv, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("ciphertext must not equal plaintext")
	}

	got, err := Decrypt(key, iv, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %x, want %x", got, plaintext)
	}
}

func TestEncrypt_RejectsUnalignedInput(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 32)
	iv := bytes.Repeat([]byte{0x02}, 16)
	if _, err := Encrypt(key, iv, []byte{1, 2, 3}); err != ErrBadBlockSize {
		t.Fatalf("expected ErrBadBlockSize, got %v", err)
	}
	if _, err := Decrypt(key, iv, []byte{1, 2, 3}); err != ErrBadBlockSize {
		t.Fatalf("expected ErrBadBlockSize, got %v", err)
	}
}

func TestDecrypt_DifferentIVsProduceDifferentPlaintext(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, 32)
	plaintext := bytes.Repeat([]byte{0x11}, 32)
	ivA := bytes.Repeat([]byte{0x01}, 16)
	ivB := bytes.Repeat([]byte{0x02}, 16)

	ctA, err := Encrypt(key, ivA, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	decodedWithWrongIV, err := Decrypt(key, ivB, ctA)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if bytes.Equal(decodedWithWrongIV, plaintext) {
		t.Fatal("decrypting with the wrong IV must not reproduce the original plaintext")
	}
}
