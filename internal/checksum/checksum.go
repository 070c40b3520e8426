// Package checksum implements the wallet format's field checksums: the
// first four bytes of hash256(field), with single-bit repair on mismatch
// (§4.B, §6.1).
package checksum

import "crypto/sha256"

// Size is the width of a stored checksum, in bytes.
const Size = 4

// Hash256 returns SHA-256(SHA-256(data)), the double hash the wallet format
// uses for both field checksums and WIF/Base58Check checksums (grounded on
// the teacher's generateWIFManual in internal/recovery/recovery.go).
func Hash256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

func checksumOf(data []byte) [Size]byte {
	h := Hash256(data)
	var out [Size]byte
	copy(out[:], h[:Size])
	return out
}

// Verify checks data against its stored checksum. On an exact match it
// returns data unchanged. On mismatch it searches for a single bit flip in
// data that would reproduce the checksum and, if found, returns the
// repaired bytes with repaired=true. If no single-bit flip explains the
// mismatch, it returns (nil, false, false) — the field is unrecoverable and
// the caller should treat it as empty/absent.
func Verify(data []byte, chk []byte) (out []byte, ok bool, repaired bool) {
	want := checksumOf(data)
	if bytesEqual(want[:], chk) {
		return data, true, false
	}

	trial := make([]byte, len(data))
	copy(trial, data)
	for byteIdx := range trial {
		for bit := 0; bit < 8; bit++ {
			trial[byteIdx] ^= 1 << uint(bit)
			got := checksumOf(trial)
			if bytesEqual(got[:], chk) {
				repairedOut := make([]byte, len(data))
				copy(repairedOut, trial)
				return repairedOut, true, true
			}
			trial[byteIdx] ^= 1 << uint(bit) // undo
		}
	}
	return nil, false, false
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

// Of computes the stored-checksum bytes for data, for use when
// re-serializing a decoded entry.
func Of(data []byte) []byte {
	c := checksumOf(data)
	return c[:]
}
