// Package walletio reads and writes the wallet container: the header
// (§3 Header) and the body record stream (§6.1, bit-exact). Header framing
// beyond the fields named in §3 is this reimplementation's own choice,
// since the body record stream is the only wire layout the source
// specifies bit-for-bit; the header is length-prefixed fields in the same
// little-endian style as the body so one Reader/Writer pair serves both.
package walletio

import (
	"errors"
	"fmt"

	"github.com/armrecover/armrecover/internal/address"
	"github.com/armrecover/armrecover/internal/binreader"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// magic identifies the start of a wallet file.
var magic = [8]byte{'A', 'R', 'M', 'R', 'E', 'C', 'O', 'V'}

// headerVersion is the on-disk header layout version this package reads
// and writes.
const headerVersion uint32 = 1

// ErrBadMagic is returned by ParseHeader when the file does not start with
// the expected magic bytes — the §7 code -1 condition ("not an Armory
// wallet").
var ErrBadMagic = errors.New("walletio: bad magic, not a recoverable wallet file")

// ErrUnsupportedVersion is returned when the header declares a layout
// version this package does not understand.
var ErrUnsupportedVersion = errors.New("walletio: unsupported header version")

// ParseHeader reads the fixed+variable header fields from r, leaving the
// reader positioned at the start of the body record stream.
func ParseHeader(r *binreader.Reader) (*wtypes.Header, error) {
	got, err := r.GetBytes(len(magic))
	if err != nil || !bytesEqual(got, magic[:]) {
		return nil, ErrBadMagic
	}
	version, err := r.GetU32LE()
	if err != nil {
		return nil, fmt.Errorf("walletio: reading header version: %w", err)
	}
	if version != headerVersion {
		return nil, ErrUnsupportedVersion
	}

	h := &wtypes.Header{}

	networkByte, err := r.GetBytes(1)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading network byte: %w", err)
	}
	h.NetworkByte = networkByte[0]

	flags, err := r.GetBytes(1)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading header flags: %w", err)
	}
	h.WatchingOnly = flags[0]&(1<<0) != 0
	h.IsLocked = flags[0]&(1<<1) != 0

	uid, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading unique id: %w", err)
	}
	h.UniqueIDB58 = string(uid)

	name, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading label name: %w", err)
	}
	h.LabelName = string(name)

	descr, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading label description: %w", err)
	}
	h.LabelDescr = string(descr)

	kdfPresent, err := r.GetBytes(1)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading kdf presence: %w", err)
	}
	if kdfPresent[0] == 1 {
		params := &wtypes.KdfParams{}
		n, err := r.GetU32LE()
		if err != nil {
			return nil, err
		}
		params.N = int(n)
		rr, err := r.GetU32LE()
		if err != nil {
			return nil, err
		}
		params.R = int(rr)
		p, err := r.GetU32LE()
		if err != nil {
			return nil, err
		}
		params.P = int(p)
		keyLen, err := r.GetU32LE()
		if err != nil {
			return nil, err
		}
		params.KeyLenB = int(keyLen)
		salt, err := readLenPrefixed(r)
		if err != nil {
			return nil, err
		}
		params.Salt = salt
		h.KDF = params
	}

	verifyHash, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading verify hash: %w", err)
	}
	h.EncryptVerifyHash = verifyHash

	rootBody, err := r.GetBytes(address.EntrySize)
	if err != nil {
		return nil, fmt.Errorf("walletio: reading root entry: %w", err)
	}
	root, _, err := address.Decode(rootBody)
	if err != nil {
		return nil, fmt.Errorf("walletio: decoding root entry: %w", err)
	}
	h.Root = root

	return h, nil
}

// WriteHeader serializes h in the layout ParseHeader reads.
func WriteHeader(w *binreader.Writer, h *wtypes.Header) {
	w.PutBytes(magic[:])
	w.PutU32LE(headerVersion)
	w.PutBytes([]byte{h.NetworkByte})

	var flags byte
	if h.WatchingOnly {
		flags |= 1 << 0
	}
	if h.IsLocked {
		flags |= 1 << 1
	}
	w.PutBytes([]byte{flags})

	writeLenPrefixed(w, []byte(h.UniqueIDB58))
	writeLenPrefixed(w, []byte(h.LabelName))
	writeLenPrefixed(w, []byte(h.LabelDescr))

	if h.KDF != nil {
		w.PutBytes([]byte{1})
		w.PutU32LE(uint32(h.KDF.N))
		w.PutU32LE(uint32(h.KDF.R))
		w.PutU32LE(uint32(h.KDF.P))
		w.PutU32LE(uint32(h.KDF.KeyLenB))
		writeLenPrefixed(w, h.KDF.Salt)
	} else {
		w.PutBytes([]byte{0})
	}

	writeLenPrefixed(w, h.EncryptVerifyHash)

	if h.Root != nil {
		w.PutBytes(address.Encode(h.Root))
	} else {
		w.PutBytes(make([]byte, address.EntrySize))
	}
}

func readLenPrefixed(r *binreader.Reader) ([]byte, error) {
	n, err := r.GetU16LE()
	if err != nil {
		return nil, err
	}
	return r.GetBytes(int(n))
}

func writeLenPrefixed(w *binreader.Writer, b []byte) {
	w.PutU16LE(uint16(len(b)))
	w.PutBytes(b)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
