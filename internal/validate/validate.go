// Package validate implements the chain validator of §4.D: nine checks per
// chained entry in ascending chain-index order, plus the reduced set of
// checks for imported entries. All findings are appended to an ordered,
// append-only Diagnostics collection keyed by chain index or imported
// index, never by mutable object identity, per §9's redesign note.
package validate

import (
	"sort"

	"github.com/armrecover/armrecover/internal/address"
	"github.com/armrecover/armrecover/internal/chainkey"
	"github.com/armrecover/armrecover/internal/walletcrypt"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// Chain is the ordered map keyed by chain_index the redesign note calls
// for: ascending keys, with a predecessor lookup for gap detection and
// public-key chain reconstruction.
type Chain struct {
	indices []wtypes.ChainIndex
	records map[wtypes.ChainIndex]*wtypes.ChainedRecord
}

// NewChain builds a Chain from the records observed during body scanning,
// sorted ascending by chain index.
func NewChain(records []*wtypes.ChainedRecord) *Chain {
	c := &Chain{records: make(map[wtypes.ChainIndex]*wtypes.ChainedRecord, len(records))}
	for _, r := range records {
		c.records[r.Entry.ChainIndex] = r
		c.indices = append(c.indices, r.Entry.ChainIndex)
	}
	sort.Slice(c.indices, func(i, j int) bool { return c.indices[i] < c.indices[j] })
	return c
}

// Predecessor returns the nearest surviving index strictly below i, and
// whether one exists.
func (c *Chain) Predecessor(i wtypes.ChainIndex) (wtypes.ChainIndex, bool) {
	var best wtypes.ChainIndex
	found := false
	for _, idx := range c.indices {
		if idx < i {
			best = idx
			found = true
			continue
		}
		break
	}
	return best, found
}

// Get returns the record at index i, if any.
func (c *Chain) Get(i wtypes.ChainIndex) (*wtypes.ChainedRecord, bool) {
	r, ok := c.records[i]
	return r, ok
}

// Indices returns every surviving chain index in ascending order.
func (c *Chain) Indices() []wtypes.ChainIndex { return c.indices }

// Options carries the master key and root chaincode the validator needs
// for private-key reconciliation (§4.D step 7) and chaincode-equality
// checking (step 3). KDFKey is nil for a watch-only or locked-without-
// passphrase run.
type Options struct {
	RootChaincode [32]byte
	WatchOnly     bool
	KDFKey        []byte
}

// Result is the full set of findings from one validation pass.
type Result struct {
	Diagnostics wtypes.Diagnostics
	// Resolved holds the (possibly repaired/recomputed) entry for each
	// chain index after validation, for the output wallet writer.
	Resolved map[wtypes.ChainIndex]*wtypes.AddressEntry
}

// ValidateChain runs the nine-step check over every chained entry in
// ascending order.
func ValidateChain(chain *Chain, opts Options) *Result {
	res := &Result{Resolved: make(map[wtypes.ChainIndex]*wtypes.AddressEntry)}

	for _, idx := range chain.Indices() {
		rec, _ := chain.Get(idx)
		entry := rec.Entry

		// 1. Byte-equality check.
		canonical := address.Encode(entry)
		if !bytesEqual(canonical, rec.Raw) {
			res.Diagnostics.Append(wtypes.Diagnostic{
				Kind: wtypes.DiagByteError, ChainIndex: idx, Offset: rec.Offset,
			})
			reparsed, _, err := address.Decode(canonical)
			if err == nil {
				entry = reparsed
			}
		}

		// 2. Curve-point check / missing pub.
		switch {
		case len(entry.PubKey) == 0:
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagMissingPubKey, ChainIndex: idx, Offset: rec.Offset})
		case !chainkey.VerifyPublicKey(entry.PubKey):
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagInvalidPubKey, ChainIndex: idx, Offset: rec.Offset})
		}

		// 3. Chaincode equality with the root.
		if entry.Chaincode != opts.RootChaincode {
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagChainCodeCorruption, ChainIndex: idx, Offset: rec.Offset})
		}

		// 4. Arrival-order sequence.
		if idx > 0 {
			if prevRec, ok := chain.Get(idx - 1); ok && rec.Arrival-prevRec.Arrival != 1 {
				res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagBrokenSequence, ChainIndex: idx, Offset: rec.Offset})
			}
		}

		// 5. Gap detection.
		predIdx, hasPred := chain.Predecessor(idx)
		if hasPred && idx-predIdx > 1 {
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagSequenceGap, FromIndex: predIdx, ToIndex: idx})
		}

		// 6. Public-key chain reconstruction.
		if hasPred {
			predRec, _ := chain.Get(predIdx)
			if predEntry, ok := res.Resolved[predIdx]; ok {
				predRec = &wtypes.ChainedRecord{Entry: predEntry}
			}
			if len(predRec.Entry.PubKey) > 0 && len(entry.PubKey) > 0 {
				expected := predRec.Entry.PubKey
				steps := int64(idx - predIdx)
				var err error
				for s := int64(0); s < steps; s++ {
					expected, err = chainkey.ComputeChainedPublicKey(expected, predRec.Entry.Chaincode[:])
					if err != nil {
						break
					}
				}
				if err != nil || !bytesEqual(expected, entry.PubKey) {
					res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagBrokenPublicKeyChain, ChainIndex: idx, Offset: rec.Offset})
				}
			}
		}

		// 7. Private-key reconciliation.
		if !opts.WatchOnly && len(opts.KDFKey) > 0 {
			entry = reconcilePrivateKey(chain, idx, entry, predIdx, hasPred, opts, res)
		}

		// 8. Hash160 reconciliation.
		if len(entry.PubKey) > 0 {
			got := chainkey.Hash160(entry.PubKey)
			if got != entry.Hash160 {
				res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagHashValMismatch, ChainIndex: idx, Offset: rec.Offset})
			}
		}

		// 9. Re-lock needs no step of its own: reconcilePrivateKey keeps any
		// decrypted private key in a local variable and never stores it on
		// the entry, so Resolved holds the entry's private-key bytes exactly
		// as they were read.
		res.Resolved[idx] = entry
	}

	return res
}

func reconcilePrivateKey(chain *Chain, idx wtypes.ChainIndex, entry *wtypes.AddressEntry, predIdx wtypes.ChainIndex, hasPred bool, opts Options, res *Result) *wtypes.AddressEntry {
	offset := int64(0)
	if rec, ok := chain.Get(idx); ok {
		offset = rec.Offset
	}

	if entry.CreatePrivOnNextUnlock && hasPred {
		if predEntry, ok := res.Resolved[predIdx]; ok {
			entry = entry.Clone()
			entry.AncestorIV = predEntry.IV
			entry.AncestorEncryptedPriv = predEntry.PrivKey
			entry.CreatePrivOnNextUnlockDepth = int64(idx - predIdx)
		}
	}

	var plainPriv []byte
	switch {
	case entry.CreatePrivOnNextUnlock && len(entry.AncestorEncryptedPriv) == 32:
		ancestorPlain, err := walletcrypt.Decrypt(opts.KDFKey, entry.AncestorIV, entry.AncestorEncryptedPriv)
		if err != nil {
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagUnmatchedPair, ChainIndex: idx, Offset: offset})
		} else {
			chained := ancestorPlain
			for s := int64(0); s < entry.CreatePrivOnNextUnlockDepth; s++ {
				chained, _ = chainkey.ComputeChainedPrivateKey(chained, entry.Chaincode[:])
			}
			plainPriv = chained
		}
	case entry.UseEncryption && len(entry.PrivKey) == 32:
		decrypted, err := walletcrypt.Decrypt(opts.KDFKey, entry.IV, entry.PrivKey)
		if err != nil {
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagUnmatchedPair, ChainIndex: idx, Offset: offset})
		} else {
			plainPriv = decrypted
		}
	case !entry.UseEncryption && len(entry.PrivKey) == 32:
		plainPriv = entry.PrivKey
	}

	if len(plainPriv) == 32 {
		if len(entry.PubKey) == 0 {
			if pub, err := chainkey.ComputePublicKey(plainPriv); err == nil {
				entry = entry.Clone()
				entry.PubKey = pub
				entry.HasPub = true
			}
		} else if !chainkey.CheckPubPrivKeyMatch(plainPriv, entry.PubKey) {
			res.Diagnostics.Append(wtypes.Diagnostic{Kind: wtypes.DiagUnmatchedPair, ChainIndex: idx, Offset: offset})
		}
	}

	return entry
}

// ValidateImported runs the reduced check set for non-chained entries.
func ValidateImported(records []*wtypes.ImportedRecord, watchOnly bool, kdfKey []byte) *wtypes.Diagnostics {
	diags := &wtypes.Diagnostics{}
	for i, rec := range records {
		entry := rec.Entry
		canonical := address.Encode(entry)
		if !bytesEqual(canonical, rec.Raw) {
			diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagByteError, ImportedIdx: i, Offset: rec.Offset})
		}

		switch {
		case len(entry.PubKey) == 0:
			diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagMissingPubKey, ImportedIdx: i, Offset: rec.Offset})
		case !chainkey.VerifyPublicKey(entry.PubKey):
			diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagInvalidPubKey, ImportedIdx: i, Offset: rec.Offset})
		}

		if !watchOnly && len(kdfKey) > 0 && len(entry.PrivKey) == 32 {
			var plainPriv []byte
			if entry.UseEncryption {
				decrypted, err := walletcrypt.Decrypt(kdfKey, entry.IV, entry.PrivKey)
				if err != nil {
					diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagImportedError, ImportedIdx: i, Offset: rec.Offset, Text: "failed to unlock imported private key"})
				} else {
					plainPriv = decrypted
				}
			} else {
				plainPriv = entry.PrivKey
			}
			if len(plainPriv) == 32 && len(entry.PubKey) > 0 && !chainkey.CheckPubPrivKeyMatch(plainPriv, entry.PubKey) {
				diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagUnmatchedPair, ImportedIdx: i, Offset: rec.Offset})
			}
		} else if len(entry.PrivKey) != 32 {
			diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagImportedError, ImportedIdx: i, Offset: rec.Offset, Text: "no private key present"})
		}

		if len(entry.PubKey) > 0 {
			got := chainkey.Hash160(entry.PubKey)
			if got != entry.Hash160 {
				diags.Append(wtypes.Diagnostic{Kind: wtypes.DiagHashValMismatch, ImportedIdx: i, Offset: rec.Offset})
			}
		}
	}
	return diags
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
