// records.go implements the body record stream of §6.1 and §4.A/§4.C: a
// flat sequence of type-tagged records with no index, read until EOF, with
// automatic resynchronization on any decode failure.
package walletio

import (
	"io"

	"github.com/armrecover/armrecover/internal/address"
	"github.com/armrecover/armrecover/internal/binreader"
	"github.com/armrecover/armrecover/internal/resync"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// Record is one body record as delivered to the caller, whichever of its
// fields are meaningful depending on Dtype.
type Record struct {
	Dtype        wtypes.RecordType
	Offset       int64
	Key          []byte
	Comment      wtypes.Comment // populated for ADDR_COMMENT/TX_COMMENT
	Addr         *wtypes.AddressEntry
	Mask         int
	Raw          []byte
	Arrival      int
	WasRecovered bool
}

// BodyScanner walks the record stream one record at a time, resynchronizing
// transparently on decode failure.
type BodyScanner struct {
	r       *binreader.Reader
	arrival int
}

// NewBodyScanner wraps r, which must already be positioned at the start of
// the body (immediately after the header).
func NewBodyScanner(r *binreader.Reader) *BodyScanner {
	return &BodyScanner{r: r}
}

// Next returns the next record, or io.EOF when the stream is exhausted. A
// decode failure at any point is handled internally by resynchronizing;
// Next only returns an error for io.EOF.
func (s *BodyScanner) Next() (Record, error) {
	if s.r.Remaining() <= 0 {
		return Record{}, io.EOF
	}

	offset := s.r.Position()
	tagByte, err := s.r.GetBytes(1)
	if err != nil {
		return Record{}, io.EOF
	}
	tag := wtypes.RecordType(tagByte[0])

	switch tag {
	case wtypes.RecordKeyData:
		return s.readKeyData(offset)
	case wtypes.RecordAddrComment:
		return s.readComment(offset, tag, 20)
	case wtypes.RecordTxComment:
		return s.readComment(offset, tag, 32)
	case wtypes.RecordOpEval:
		s.arrival++
		return Record{Dtype: tag, Offset: offset, Arrival: s.arrival}, nil
	case wtypes.RecordDeleted:
		n, err := s.r.GetU16LE()
		if err != nil {
			s.r.SetPosition(offset)
			return s.resync(offset)
		}
		if _, err := s.r.GetBytes(int(n)); err != nil {
			s.r.SetPosition(offset)
			return s.resync(offset)
		}
		s.arrival++
		return Record{Dtype: tag, Offset: offset, Arrival: s.arrival}, nil
	default:
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
}

func (s *BodyScanner) readKeyData(offset int64) (Record, error) {
	key, err := s.r.GetBytes(20)
	if err != nil {
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
	body, err := s.r.GetBytes(address.EntrySize)
	if err != nil {
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
	entry, mask, err := address.Decode(body)
	if err != nil {
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
	s.arrival++
	return Record{
		Dtype:   wtypes.RecordKeyData,
		Offset:  offset,
		Key:     key,
		Addr:    entry,
		Mask:    mask,
		Raw:     body,
		Arrival: s.arrival,
	}, nil
}

func (s *BodyScanner) readComment(offset int64, tag wtypes.RecordType, keyWidth int) (Record, error) {
	key, err := s.r.GetBytes(keyWidth)
	if err != nil {
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
	n, err := s.r.GetU16LE()
	if err != nil {
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
	text, err := s.r.GetBytes(int(n))
	if err != nil {
		s.r.SetPosition(offset)
		return s.resync(offset)
	}
	s.arrival++
	return Record{
		Dtype:   tag,
		Offset:  offset,
		Key:     key,
		Comment: wtypes.Comment{Key: key, Text: text, Type: tag},
		Arrival: s.arrival,
	}, nil
}

// resync hands control to the resynchronizer; it must never be called with
// the reader positioned anywhere but the offset where the failure was
// first detected.
func (s *BodyScanner) resync(failedAt int64) (Record, error) {
	out, ok := resync.Find(s.r)
	if !ok {
		return Record{}, io.EOF
	}
	s.arrival++
	rec := Record{
		Dtype:        out.Dtype,
		Offset:       out.Offset,
		Key:          out.Key,
		Addr:         out.Addr,
		Mask:         out.Mask,
		Raw:          out.Body,
		Arrival:      s.arrival,
		WasRecovered: true,
	}
	if out.Dtype == wtypes.RecordAddrComment || out.Dtype == wtypes.RecordTxComment {
		rec.Comment = wtypes.Comment{Key: out.Key, Text: out.Body, Type: out.Dtype}
	}
	_ = failedAt
	return rec, nil
}
