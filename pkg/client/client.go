// Package client provides a public API for wallet recovery functionality.
// This package is intended for consumption by other Go applications.
package client

import (
	"context"

	"github.com/armrecover/armrecover/internal/progress"
	"github.com/armrecover/armrecover/internal/recoveryengine"
)

// Mode is one of the five recovery modes accepted by RecoverWallet.
type Mode = recoveryengine.Mode

// Recovery modes, re-exported for callers that want the named constants
// instead of strings.
const (
	ModeStripped = recoveryengine.ModeStripped
	ModeBare     = recoveryengine.ModeBare
	ModeFull     = recoveryengine.ModeFull
	ModeMeta     = recoveryengine.ModeMeta
	ModeCheck    = recoveryengine.ModeCheck
)

// Result reports a non-Meta recovery run's outcome.
type Result = recoveryengine.Result

// CommentMap is the Meta-mode return value: labels and comment entries.
type CommentMap = recoveryengine.CommentMap

// ProgressSink lets a caller observe and interact with a running recovery.
type ProgressSink = progress.Sink

// Options is the full configuration RecoverWalletWithOptions accepts,
// beyond the four positional arguments §6.3 names.
type Options = recoveryengine.Options

// RecoverWallet implements the §6.3 public entry point:
// recover_wallet(path, passphrase?, mode, gui?) -> i32 | CommentMap.
//
// mode accepts "Stripped"|"Bare"|"Full"|"Meta"|"Check" or "1".."5".
// sink may be nil for a batch run with no interactive passphrase prompt.
func RecoverWallet(path string, passphrase []byte, mode string, sink ProgressSink) (*Result, *CommentMap, error) {
	m, err := recoveryengine.ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}
	return recoveryengine.Recover(context.Background(), recoveryengine.Options{
		Path:       path,
		Passphrase: passphrase,
		Mode:       m,
		Progress:   sink,
	})
}

// RecoverWalletWithOptions is RecoverWallet for callers that need more than
// the §6.3 entry point exposes, such as an explicit output path for the
// recovered wallet (CLI's --output flag).
func RecoverWalletWithOptions(path string, passphrase []byte, mode string, outputPath string, sink ProgressSink) (*Result, *CommentMap, error) {
	m, err := recoveryengine.ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}
	return recoveryengine.Recover(context.Background(), recoveryengine.Options{
		Path:       path,
		OutputPath: outputPath,
		Passphrase: passphrase,
		Mode:       m,
		Progress:   sink,
	})
}
