// Package wtypes holds the data model shared across the recovery pipeline:
// the wallet header, the address entry record, and the diagnostic variants
// the validator and log builder operate on.
package wtypes

// ChainIndex identifies an address entry's position in the deterministic
// derivation sequence. -1 or less is an imported key, 0 is the root, >=1 is
// a chained child.
type ChainIndex int64

const (
	// ChainIndexRoot is the chain index of the wallet's root address entry.
	ChainIndexRoot ChainIndex = 0
)

// IsImported reports whether the index identifies an imported (non-chained)
// key.
func (c ChainIndex) IsImported() bool { return c <= -1 }

// KdfParams carries the scrypt-style cost parameters recorded in the wallet
// header, or nil when the wallet has no KDF (unencrypted).
type KdfParams struct {
	N       int
	R       int
	P       int
	Salt    []byte
	KeyLenB int
}

// Header is the fixed set of wallet-level fields read ahead of the body
// record stream (§3 DATA MODEL).
type Header struct {
	UniqueIDB58  string
	LabelName    string
	LabelDescr   string
	WatchingOnly bool
	IsLocked     bool
	KDF          *KdfParams
	Root         *AddressEntry
	// EncryptVerifyHash is the header's check value: hash256 of the derived
	// KDF key itself, used to verify a candidate passphrase without touching
	// any chained private key.
	EncryptVerifyHash []byte
	NetworkByte       byte
}

// AddressEntry is the central 237-byte record described in §3 and laid out
// in §4.B.
type AddressEntry struct {
	Hash160     [20]byte
	AddrVersion uint32
	ChainIndex  ChainIndex
	Chaincode   [32]byte

	HasPriv                bool
	HasPub                 bool
	UseEncryption          bool
	CreatePrivOnNextUnlock bool

	IV      []byte // 16 bytes when present
	PrivKey []byte // 32 bytes, plaintext or ciphertext per UseEncryption
	PubKey  []byte // 65 bytes uncompressed, when present

	TimeRange [2]uint64
	BlockRange [2]uint32

	CreatePrivOnNextUnlockDepth int64
	// AncestorIV/AncestorEncryptedPriv are populated by the validator (§4.D
	// step 7) from the nearest preceding surviving entry, to derive this
	// entry's private key on unlock when CreatePrivOnNextUnlock is set.
	AncestorIV            []byte
	AncestorEncryptedPriv []byte

	// Locked is not set or read anywhere in this module; whether PrivKey
	// holds ciphertext is decided by UseEncryption.
	Locked bool
}

// Clone returns a deep copy of the entry so resync/validate can rewrite a
// candidate without mutating the arrival-ordered map in place.
func (a *AddressEntry) Clone() *AddressEntry {
	if a == nil {
		return nil
	}
	c := *a
	c.IV = append([]byte(nil), a.IV...)
	c.PrivKey = append([]byte(nil), a.PrivKey...)
	c.PubKey = append([]byte(nil), a.PubKey...)
	c.AncestorIV = append([]byte(nil), a.AncestorIV...)
	c.AncestorEncryptedPriv = append([]byte(nil), a.AncestorEncryptedPriv...)
	return &c
}

// RecordType is the wallet body's type_tag byte (§6.1).
type RecordType byte

const (
	RecordKeyData     RecordType = 0
	RecordAddrComment RecordType = 1
	RecordTxComment   RecordType = 2
	RecordOpEval      RecordType = 3
	RecordDeleted     RecordType = 4
)

// ChecksumMask bits, per §4.B.
const (
	MaskHash160Checksum    = 1 << 0
	MaskPrivUnreadable     = 1 << 1
	MaskPrivUnexpected     = 1 << 2
	MaskIVUnreadable       = 1 << 3
	MaskIVUnexpected       = 1 << 4
	MaskPubUnreadable      = 1 << 5
	MaskPubUnexpected      = 1 << 6
	MaskChaincodeChecksum  = 1 << 7

	// MaskFatalThreshold is the exact predicate preserved from the
	// original source (0b10101011 = 171): hash160 + priv + IV + pub +
	// chaincode checksums all broken at once leaves too little to trust.
	MaskFatalThreshold = 0xAB
)

// ChainedRecord is one surviving chained entry plus the bookkeeping the
// validator needs: declared hash, arrival order in the file, byte offset,
// and the raw bytes it was decoded from (for the byte-equality check).
type ChainedRecord struct {
	Entry        *AddressEntry
	DeclaredHash [20]byte
	Arrival      int
	Offset       int64
	Raw          []byte
}

// ImportedRecord is one imported (non-chained) entry in arrival order.
type ImportedRecord struct {
	Entry        *AddressEntry
	DeclaredHash [20]byte
	Offset       int64
	Raw          []byte
}

// Comment is one ADDR_COMMENT or TX_COMMENT record.
type Comment struct {
	Key  []byte // 20-byte hash160 or 32-byte txid, per dtype
	Text []byte
	Type RecordType
}
