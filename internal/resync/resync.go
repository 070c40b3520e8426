// Package resync implements the record resynchronizer of §4.C: recovering
// stream alignment after any uncaught decode failure by trying a sequence
// of hypotheses about what was actually written at the failure point,
// falling back to a byte-by-byte walk when none fit.
//
// Each hypothesis restores the reader to the original failure offset before
// it runs, and the resynchronizer never leaves the reader positioned
// anywhere but the offset it ultimately accepted — mirroring the
// redesign note to replace exception-for-control-flow with explicit
// outcomes per hypothesis.
package resync

import (
	"github.com/armrecover/armrecover/internal/address"
	"github.com/armrecover/armrecover/internal/binreader"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// Outcome is what one accepted hypothesis reports back to the caller.
type Outcome struct {
	Dtype        wtypes.RecordType
	Key          []byte
	Body         []byte
	WasRecovered bool
	Offset       int64
	Addr         *wtypes.AddressEntry
	Mask         int
}

// Find runs the resynchronizer starting at the reader's current position
// (the failure offset). On success it leaves the reader positioned just
// past the accepted record and returns the outcome. On exhaustion
// (reaching EOF with no hypothesis matching at any offset) it returns
// ok=false with the reader positioned at EOF.
func Find(r *binreader.Reader) (Outcome, bool) {
	loc := r.Position()
	size := int64(r.Size())

	// A byte-walk over the remaining stream, per hypothesis, terminating
	// at or before EOF (§8 P4). Written as a loop rather than the source's
	// recursive call so arbitrarily large gaps cannot exhaust the stack.
	for loc < size {
		if out, ok := tryAddressHypothesis(r, loc); ok {
			return out, true
		}
		if out, ok := trySkipOneEntryHypothesis(r, loc); ok {
			return out, true
		}
		if out, ok := tryCommentHypothesis(r, loc, 20); ok {
			return out, true
		}
		if out, ok := tryCommentHypothesis(r, loc, 32); ok {
			return out, true
		}
		if out, ok := tryDeletedHypothesis(r, loc); ok {
			return out, true
		}
		loc++
	}
	r.SetPosition(size)
	return Outcome{}, false
}

// tryAddressHypothesis assumes the failure happened inside a KEYDATA
// record whose tag byte was actually correct: skip tag+key and decode the
// entry body directly.
func tryAddressHypothesis(r *binreader.Reader, loc int64) (Outcome, bool) {
	r.SetPosition(loc)
	if err := r.Advance(1 + 20); err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	body, err := r.GetBytes(address.EntrySize)
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	addr, mask, err := address.Decode(body)
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	return Outcome{
		Dtype:        wtypes.RecordKeyData,
		Body:         body,
		WasRecovered: true,
		Offset:       loc,
		Addr:         addr,
		Mask:         mask,
	}, true
}

// trySkipOneEntryHypothesis assumes one whole KEYDATA record was garbage
// and the next record after it is intact.
func trySkipOneEntryHypothesis(r *binreader.Reader, loc int64) (Outcome, bool) {
	r.SetPosition(loc)
	if err := r.Advance(1 + 20 + address.EntrySize); err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	nextOffset := r.Position()
	tag, key, body, ok := probeRecord(r)
	if !ok {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	return Outcome{
		Dtype:        tag,
		Key:          key,
		Body:         body,
		WasRecovered: true,
		Offset:       nextOffset,
	}, true
}

// tryCommentHypothesis assumes the failure happened inside an
// ADDR_COMMENT (keyWidth=20) or TX_COMMENT (keyWidth=32) record: skip
// tag+key, read its length-prefixed body, then probe for a valid record
// immediately after.
func tryCommentHypothesis(r *binreader.Reader, loc int64, keyWidth int) (Outcome, bool) {
	r.SetPosition(loc)
	if err := r.Advance(1); err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	key, err := r.GetBytes(keyWidth)
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	n, err := r.GetU16LE()
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	text, err := r.GetBytes(int(n))
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	end := r.Position()
	if _, _, _, ok := probeRecord(r); !ok {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	r.SetPosition(end)
	recordType := wtypes.RecordAddrComment
	if keyWidth == 32 {
		recordType = wtypes.RecordTxComment
	}
	return Outcome{
		Dtype:        recordType,
		Key:          key,
		Body:         text,
		WasRecovered: true,
		Offset:       loc,
	}, true
}

// tryDeletedHypothesis assumes a DELETED record: tag, u16 length, and an
// all-zero body. The original source inverted this check; here the body
// must actually be all zero to accept the hypothesis.
func tryDeletedHypothesis(r *binreader.Reader, loc int64) (Outcome, bool) {
	r.SetPosition(loc)
	if err := r.Advance(1); err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	n, err := r.GetU16LE()
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	body, err := r.GetBytes(int(n))
	if err != nil {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	if !allZero(body) {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	end := r.Position()
	if _, _, _, ok := probeRecord(r); !ok {
		r.SetPosition(loc)
		return Outcome{}, false
	}
	r.SetPosition(end)
	return Outcome{
		Dtype:        wtypes.RecordDeleted,
		Body:         body,
		WasRecovered: true,
		Offset:       loc,
	}, true
}

// probeRecord attempts to read one well-formed record of any known type
// starting at the reader's current position, without recursing into the
// resynchronizer itself. OPEVAL records have no length prefix in the
// stream and so cannot be probed structurally; a tag of 3 is accepted on
// the strength of the tag byte alone, consuming nothing further.
func probeRecord(r *binreader.Reader) (wtypes.RecordType, []byte, []byte, bool) {
	tagByte, err := r.GetBytes(1)
	if err != nil {
		return 0, nil, nil, false
	}
	tag := wtypes.RecordType(tagByte[0])
	switch tag {
	case wtypes.RecordKeyData:
		key, err := r.GetBytes(20)
		if err != nil {
			return 0, nil, nil, false
		}
		body, err := r.GetBytes(address.EntrySize)
		if err != nil {
			return 0, nil, nil, false
		}
		if _, _, err := address.Decode(body); err != nil {
			return 0, nil, nil, false
		}
		return tag, key, body, true
	case wtypes.RecordAddrComment:
		return probeLengthPrefixed(r, tag, 20)
	case wtypes.RecordTxComment:
		return probeLengthPrefixed(r, tag, 32)
	case wtypes.RecordOpEval:
		return tag, nil, nil, true
	case wtypes.RecordDeleted:
		n, err := r.GetU16LE()
		if err != nil {
			return 0, nil, nil, false
		}
		body, err := r.GetBytes(int(n))
		if err != nil || !allZero(body) {
			return 0, nil, nil, false
		}
		return tag, nil, body, true
	default:
		return 0, nil, nil, false
	}
}

func probeLengthPrefixed(r *binreader.Reader, tag wtypes.RecordType, keyWidth int) (wtypes.RecordType, []byte, []byte, bool) {
	key, err := r.GetBytes(keyWidth)
	if err != nil {
		return 0, nil, nil, false
	}
	n, err := r.GetU16LE()
	if err != nil {
		return 0, nil, nil, false
	}
	body, err := r.GetBytes(int(n))
	if err != nil {
		return 0, nil, nil, false
	}
	return tag, key, body, true
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
