package kdf

import (
	"bytes"
	"testing"

	"github.com/armrecover/armrecover/internal/wtypes"
)

func weakTestParams() *wtypes.KdfParams {
	return &wtypes.KdfParams{N: 16, R: 1, P: 1, Salt: []byte("unit-test-salt"), KeyLenB: 32}
}

func TestDeriveKey_IsDeterministic(t *testing.T) {
	params := weakTestParams()
	a, err := DeriveKey([]byte("correct horse"), params)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	b, err := DeriveKey([]byte("correct horse"), params)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same passphrase and params must derive the same key")
	}
	if len(a) != params.KeyLenB {
		t.Fatalf("expected a %d-byte key, got %d", params.KeyLenB, len(a))
	}
}

func TestDeriveKey_DifferentPassphrasesDiverge(t *testing.T) {
	params := weakTestParams()
	a, err := DeriveKey([]byte("passphrase one"), params)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	b, err := DeriveKey([]byte("passphrase two"), params)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("different passphrases must not derive the same key")
	}
}

func TestDeriveKey_RejectsWeakParams(t *testing.T) {
	cases := []*wtypes.KdfParams{
		nil,
		{N: 0, R: 1, P: 1, Salt: []byte("x"), KeyLenB: 32},
		{N: 16, R: 0, P: 1, Salt: []byte("x"), KeyLenB: 32},
		{N: 16, R: 1, P: 0, Salt: []byte("x"), KeyLenB: 32},
		{N: 16, R: 1, P: 1, Salt: nil, KeyLenB: 32},
		{N: 16, R: 1, P: 1, Salt: []byte("x"), KeyLenB: 0},
	}
	for _, p := range cases {
		if _, err := DeriveKey([]byte("pw"), p); err != ErrWeakParams {
			t.Fatalf("expected ErrWeakParams for %+v, got %v", p, err)
		}
	}
}
