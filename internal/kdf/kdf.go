// Package kdf implements the key-derivation collaborator of §6.2: deriving
// the wallet's unlock key from a passphrase and the header-stored KDF
// parameters. Grounded on golang.org/x/crypto/scrypt, which the teacher's
// dependency set already pulls in transitively via golang.org/x/crypto.
package kdf

import (
	"errors"

	"golang.org/x/crypto/scrypt"

	"github.com/armrecover/armrecover/internal/wtypes"
)

// ErrWeakParams is returned when the header's stored KDF parameters are
// unusable (N of 1 or less, non-positive r or p, a missing salt, or a
// non-positive key length).
var ErrWeakParams = errors.New("kdf: invalid scrypt parameters")

// DeriveKey runs scrypt(passphrase, salt, N, r, p, keyLen) using the
// parameters recorded in the wallet header at unlock time. The returned key
// is the raw KDF output; callers are responsible for zeroizing it via
// internal/secure once it has been consumed.
func DeriveKey(passphrase []byte, params *wtypes.KdfParams) ([]byte, error) {
	if params == nil || params.N <= 1 || params.R <= 0 || params.P <= 0 || len(params.Salt) == 0 || params.KeyLenB <= 0 {
		return nil, ErrWeakParams
	}
	return scrypt.Key(passphrase, params.Salt, params.N, params.R, params.P, params.KeyLenB)
}
