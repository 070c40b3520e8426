// wallet.go implements open_wallet and its consistency/encryption-key
// checks from §6.2.
package walletio

import (
	"fmt"
	"os"

	"github.com/armrecover/armrecover/internal/binreader"
	"github.com/armrecover/armrecover/internal/checksum"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// Wallet is a source wallet opened for recovery: its parsed header plus a
// reader positioned at the start of the body record stream.
type Wallet struct {
	Header *wtypes.Header
	Reader *binreader.Reader
}

// OpenWallet reads path in full and parses its header. §7 code -1
// (invalid path / not an Armory wallet) corresponds to any error this
// returns.
func OpenWallet(path string) (*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("walletio: opening %s: %w", path, err)
	}
	r := binreader.New(raw)
	header, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	return &Wallet{Header: header, Reader: r}, nil
}

// DoConsistencyCheck performs the cheap structural checks that should pass
// before any body scanning begins: a root entry must be present, and a
// locked wallet must declare KDF parameters.
func (w *Wallet) DoConsistencyCheck() error {
	if w.Header.Root == nil {
		return fmt.Errorf("walletio: header has no root address entry")
	}
	if w.Header.IsLocked && !w.Header.WatchingOnly && w.Header.KDF == nil {
		return ErrNoKDFParams
	}
	return nil
}

// ErrNoKDFParams is the §7 code -10 condition.
var ErrNoKDFParams = fmt.Errorf("walletio: no KDF parameters in header")

// VerifyEncryptionKey reports whether derivedKey unlocks this wallet,
// compared against the header's stored check value (hash256 of the
// derived key itself, the simplest check value that needs no extra
// plaintext stored in the header).
func (w *Wallet) VerifyEncryptionKey(derivedKey []byte) bool {
	if len(w.Header.EncryptVerifyHash) == 0 {
		return false
	}
	got := checksum.Hash256(derivedKey)
	return bytesEqual(got[:], w.Header.EncryptVerifyHash)
}
