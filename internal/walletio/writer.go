// writer.go implements the destination wallet collaborator of §6.2 as
// create_new_wallet plus record appends and a single Flush, using the body
// record layout records.go reads. It has no counterpart to
// compute_next_address or safe_update.
package walletio

import (
	"fmt"
	"os"

	"github.com/armrecover/armrecover/internal/address"
	"github.com/armrecover/armrecover/internal/binreader"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// NewWallet accumulates a recovered wallet's header and body records
// in memory until Flush writes them out as a single file. Buffering the
// whole output avoids leaving a half-written file visible mid-run, which
// matters for the cancellation behavior in §5 (delete the partial output
// rather than publish it incomplete).
type NewWallet struct {
	Path   string
	Header *wtypes.Header
	body   *binreader.Writer
}

// CreateNewWallet starts a fresh recovered wallet at path with the given
// header and an empty body; records, including the root entry, are added
// with PutKeyData and PutComment.
func CreateNewWallet(path string, header *wtypes.Header) *NewWallet {
	return &NewWallet{
		Path:   path,
		Header: header,
		body:   binreader.NewWriter(4096),
	}
}

// PutKeyData appends one KEYDATA record (tag, hash160 key, 237-byte body).
func (w *NewWallet) PutKeyData(entry *wtypes.AddressEntry) {
	w.body.PutBytes([]byte{byte(wtypes.RecordKeyData)})
	w.body.PutFixed(entry.Hash160[:], 20)
	w.body.PutBytes(address.Encode(entry))
}

// PutComment appends one ADDR_COMMENT or TX_COMMENT record.
func (w *NewWallet) PutComment(c wtypes.Comment) {
	w.body.PutBytes([]byte{byte(c.Type)})
	w.body.PutBytes(c.Key)
	w.body.PutU16LE(uint16(len(c.Text)))
	w.body.PutBytes(c.Text)
}

// PutOpEval copies an opaque OPEVAL record through verbatim.
func (w *NewWallet) PutOpEval(raw []byte) {
	w.body.PutBytes([]byte{byte(wtypes.RecordOpEval)})
	w.body.PutBytes(raw)
}

// Flush writes the accumulated header and body to Path. It is the single
// write to disk the destination wallet performs, so a cancelled run simply
// never calls it (§5: no half-written output to clean up).
func (w *NewWallet) Flush() error {
	out := binreader.NewWriter(4096 + len(w.body.Bytes()))
	WriteHeader(out, w.Header)
	out.PutBytes(w.body.Bytes())
	if err := os.WriteFile(w.Path, out.Bytes(), 0o600); err != nil {
		return fmt.Errorf("walletio: writing recovered wallet: %w", err)
	}
	return nil
}

// DiscardStaleOutput removes a previously-written output file; a file that
// is already absent is not an error. Recover does not call it.
func DiscardStaleOutput(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("walletio: removing stale output %s: %w", path, err)
	}
	return nil
}
