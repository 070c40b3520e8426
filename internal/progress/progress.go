// Package progress defines the ProgressSink capability §9 calls for in
// place of the source's global UI-coupled state: the orchestrator depends
// only on this interface and is otherwise deterministic and UI-free.
package progress

import "context"

// Sink receives progress updates and passphrase requests from a running
// recovery. Implementations must be safe to call from the goroutine the
// orchestrator runs on.
type Sink interface {
	// Ready blocks until the sink is prepared to receive updates (the
	// source's progress_ready rendezvous), or returns ctx.Err() if ctx is
	// cancelled first.
	Ready(ctx context.Context) error

	// Update reports progress text. It returns false if the user has
	// requested cancellation, at which point the orchestrator must stop at
	// the next iteration boundary.
	Update(text string) bool

	// AskPassphrase requests a passphrase interactively and blocks for the
	// response. It returns (nil, false) if the user declined or cancelled.
	AskPassphrase(ctx context.Context) ([]byte, bool)
}

// NoOp is a Sink that never blocks, never cancels, and cannot supply a
// passphrase interactively — the default for batch/CLI runs where the
// passphrase is already known.
type NoOp struct{}

// Ready always succeeds immediately.
func (NoOp) Ready(ctx context.Context) error { return nil }

// Update always reports "continue".
func (NoOp) Update(string) bool { return true }

// AskPassphrase always declines; batch callers must supply a passphrase
// up front.
func (NoOp) AskPassphrase(context.Context) ([]byte, bool) { return nil, false }
