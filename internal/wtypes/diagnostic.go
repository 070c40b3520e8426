package wtypes

// Diagnostic is a single finding recorded by the decoder, resynchronizer or
// validator. §9 calls for tagged variants in place of the original's
// dynamic-typed index tuples; Kind selects which fields are meaningful, and
// the per-kind "views" the log builder wants are just filters over Kind.
type Diagnostic struct {
	Kind DiagnosticKind

	ChainIndex   ChainIndex // valid for chain-indexed kinds
	ImportedIdx  int        // valid for imported-key kinds
	Offset       int64
	RecoveredAt  int64 // resync: offset where a valid entry was found again
	FromIndex    ChainIndex
	ToIndex      ChainIndex
	Text         string
}

// DiagnosticKind enumerates every finding the validator and resynchronizer
// can emit, one per log section in §4.F.
type DiagnosticKind int

const (
	DiagByteError DiagnosticKind = iota
	DiagBrokenSequence
	DiagSequenceGap
	DiagBrokenPublicKeyChain
	DiagChainCodeCorruption
	DiagInvalidPubKey
	DiagMissingPubKey
	DiagHashValMismatch
	DiagUnmatchedPair
	DiagImportedError
	DiagRawBinaryError
	DiagMisc
)

// Diagnostics is an ordered, append-only collection that keeps entries in
// the order they were appended; it is never sorted. The chain validator
// appends the entries for chain index i before those for i+1, while the
// body scan appends its entries in file order.
type Diagnostics struct {
	items []Diagnostic
}

// Append records one diagnostic.
func (d *Diagnostics) Append(diag Diagnostic) {
	d.items = append(d.items, diag)
}

// All returns every recorded diagnostic, in recording order.
func (d *Diagnostics) All() []Diagnostic { return d.items }

// Filter returns the subset matching kind, preserving order. This is the
// "per-kind list" view the log builder renders a section from.
func (d *Diagnostics) Filter(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, it := range d.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// Len reports the total number of recorded diagnostics across all kinds.
func (d *Diagnostics) Len() int { return len(d.items) }
