// Package recoveryengine implements the recovery orchestrator of §4.E: the
// state machine that drives header parsing, unlocking, body scanning,
// chain/import validation, output-wallet population and log building
// across the five recovery modes.
//
//	INIT -> HEADER_PARSED -> [LOCKED? -> UNLOCKED | WATCHONLY]
//	     -> NEW_WALLET_CREATED (modes 1-3)
//	     -> BODY_SCANNED -> CHAIN_VALIDATED -> IMPORTS_VALIDATED
//	     -> NEW_WALLET_POPULATED (modes 2-3)
//	     -> LOG_BUILT -> DONE
//
// Any stage may terminate with one of the codes in errors.go; the log is
// still built and every secret still destroyed.
package recoveryengine

import (
	"context"
	"fmt"
	"io"

	"github.com/armrecover/armrecover/internal/addrfmt"
	"github.com/armrecover/armrecover/internal/kdf"
	"github.com/armrecover/armrecover/internal/logreport"
	"github.com/armrecover/armrecover/internal/progress"
	"github.com/armrecover/armrecover/internal/secure"
	"github.com/armrecover/armrecover/internal/validate"
	"github.com/armrecover/armrecover/internal/walletcrypt"
	"github.com/armrecover/armrecover/internal/walletio"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// CommentMap is the Meta-mode return value of §6.3 and §8 scenario 7.
type CommentMap struct {
	ShortLabel string                 `yaml:"shortLabel"`
	LongLabel  string                 `yaml:"longLabel"`
	NAddress   int                    `yaml:"naddress"`
	NComments  int                    `yaml:"ncomments"`
	Comments   map[int]wtypes.Comment `yaml:"comments"`
	// Addresses maps each chained entry's chain index to its base58check
	// address string, so a Meta-mode caller can match comments to the
	// addresses a wallet owner would actually recognize.
	Addresses map[int]string `yaml:"addresses"`
}

// Options configures one recovery run.
type Options struct {
	Path       string
	OutputPath string // defaults to Path + "_RECOVERED.wallet"
	Passphrase []byte
	Mode       Mode
	Progress   progress.Sink

	// ExpectedNetwork, if non-nil, rejects a wallet whose header network
	// byte doesn't match (§7 code -3). Left nil to skip the check.
	ExpectedNetwork *byte
}

// Result is what a non-Meta, non-error run produces for the caller beyond
// the §6.3 integer code: the log text and output wallet path, mostly
// useful for tests and CLI reporting.
type Result struct {
	Code            int
	LogText         string
	RecoveredWallet string
}

// Recover runs the full orchestration described in this package's doc
// comment and returns either a Result (modes 1,2,3,5), or a CommentMap
// (mode 4), per §6.3.
func Recover(ctx context.Context, opts Options) (*Result, *CommentMap, error) {
	sink := opts.Progress
	if sink == nil {
		sink = progress.NoOp{}
	}
	if err := sink.Ready(ctx); err != nil {
		return nil, nil, err
	}

	passphrase := secure.New(append([]byte(nil), opts.Passphrase...))
	var derivedKey *secure.Bytes = secure.Zero()
	defer func() {
		passphrase.Destroy()
		derivedKey.Destroy()
	}()

	// INIT -> HEADER_PARSED
	wallet, err := walletio.OpenWallet(opts.Path)
	if err != nil {
		return finish(opts, wallet, nil, nil, logCounts{}, ErrInvalidPath, "", err)
	}
	if err := wallet.DoConsistencyCheck(); err != nil {
		code := ErrInvalidPath
		if err == walletio.ErrNoKDFParams {
			code = ErrNoKDFParams
		}
		return finish(opts, wallet, nil, nil, logCounts{}, code, "", err)
	}
	if opts.ExpectedNetwork != nil && wallet.Header.NetworkByte != *opts.ExpectedNetwork {
		return finish(opts, wallet, nil, nil, logCounts{}, ErrWrongNetwork, "", fmt.Errorf("recoveryengine: wallet belongs to a different network"))
	}

	// [LOCKED? -> UNLOCKED | WATCHONLY]
	watchOnly := wallet.Header.WatchingOnly
	if wallet.Header.IsLocked && !wallet.Header.WatchingOnly {
		switch {
		case opts.Mode == ModeCheck && passphrase.Len() == 0:
			watchOnly = true
		case passphrase.Len() > 0:
			if wallet.Header.KDF == nil {
				return finish(opts, wallet, nil, nil, logCounts{}, ErrNoKDFParams, "", fmt.Errorf("recoveryengine: no KDF parameters in header"))
			}
			key, err := kdf.DeriveKey(passphrase.Bytes(), wallet.Header.KDF)
			if err != nil {
				return finish(opts, wallet, nil, nil, logCounts{}, ErrBadPassphrase, "", err)
			}
			derivedKey.Destroy()
			derivedKey = secure.New(key)
			if !wallet.VerifyEncryptionKey(derivedKey.Bytes()) {
				return finish(opts, wallet, nil, nil, logCounts{}, ErrBadPassphrase, "", fmt.Errorf("recoveryengine: passphrase did not verify"))
			}
			if _, err := unlockRoot(wallet.Header.Root, derivedKey.Bytes()); err != nil {
				return finish(opts, wallet, nil, nil, logCounts{}, ErrUnlockRootFailed, "", err)
			}
		default:
			if asked, ok := sink.AskPassphrase(ctx); ok {
				passphrase.Destroy()
				passphrase = secure.New(asked)
				return Recover(ctx, withPassphrase(opts, passphrase.Bytes()))
			}
			return finish(opts, wallet, nil, nil, logCounts{}, ErrBadPassphrase, "", fmt.Errorf("recoveryengine: wallet is encrypted and no passphrase was supplied"))
		}
	}

	if opts.Mode == ModeMeta {
		watchOnly = true
	}

	// NEW_WALLET_CREATED (modes 1-3)
	var newWallet *walletio.NewWallet
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = opts.Path + "_RECOVERED.wallet"
	}
	if opts.Mode == ModeStripped || opts.Mode == ModeBare || opts.Mode == ModeFull {
		newHeader := *wallet.Header
		newWallet = walletio.CreateNewWallet(outputPath, &newHeader)
		newWallet.PutKeyData(wallet.Header.Root)
	}

	if opts.Mode == ModeStripped {
		if !watchOnly {
			return flushStripped(opts, wallet, newWallet, outputPath)
		}
		return finish(opts, wallet, nil, nil, logCounts{}, 0, "", nil)
	}

	// BODY_SCANNED
	scanner := walletio.NewBodyScanner(wallet.Reader)
	var chainedRaw []*wtypes.ChainedRecord
	var importedRaw []*wtypes.ImportedRecord
	var comments []wtypes.Comment
	diag := &wtypes.Diagnostics{}

	for {
		if !sink.Update(fmt.Sprintf("scanning %s", opts.Path)) {
			return finish(opts, wallet, nil, nil, logCounts{}, 0, outputPath, fmt.Errorf("recoveryengine: cancelled during body scan"))
		}
		rec, err := scanner.Next()
		if err == io.EOF {
			break
		}
		switch rec.Dtype {
		case wtypes.RecordKeyData:
			if rec.Addr == nil {
				continue
			}
			if rec.WasRecovered {
				diag.Append(wtypes.Diagnostic{Kind: wtypes.DiagRawBinaryError, Offset: rec.Offset, Text: "resynchronized after decode failure"})
			}
			if rec.Mask != 0 {
				diag.Append(wtypes.Diagnostic{Kind: wtypes.DiagByteError, ChainIndex: rec.Addr.ChainIndex, Offset: rec.Offset})
			}
			if rec.Addr.ChainIndex.IsImported() {
				importedRaw = append(importedRaw, &wtypes.ImportedRecord{Entry: rec.Addr, DeclaredHash: rec.Addr.Hash160, Offset: rec.Offset, Raw: rec.Raw})
			} else {
				chainedRaw = append(chainedRaw, &wtypes.ChainedRecord{Entry: rec.Addr, DeclaredHash: rec.Addr.Hash160, Arrival: rec.Arrival, Offset: rec.Offset, Raw: rec.Raw})
			}
		case wtypes.RecordAddrComment, wtypes.RecordTxComment:
			comments = append(comments, rec.Comment)
		}
	}

	if opts.Mode == ModeMeta {
		cm := &CommentMap{
			ShortLabel: wallet.Header.LabelName,
			LongLabel:  wallet.Header.LabelDescr,
			NAddress:   len(chainedRaw),
			NComments:  len(comments),
			Comments:   make(map[int]wtypes.Comment, len(comments)),
			Addresses:  make(map[int]string, len(chainedRaw)),
		}
		for i, c := range comments {
			cm.Comments[i] = c
		}
		for _, rec := range chainedRaw {
			cm.Addresses[int(rec.Entry.ChainIndex)] = addrfmt.Base58Check(rec.Entry.Hash160, wallet.Header.NetworkByte)
		}
		return nil, cm, nil
	}

	// CHAIN_VALIDATED
	chain := validate.NewChain(chainedRaw)
	chainResult := validate.ValidateChain(chain, validate.Options{
		RootChaincode: wallet.Header.Root.Chaincode,
		WatchOnly:     watchOnly,
		KDFKey:        derivedKey.Bytes(),
	})
	for _, d := range chainResult.Diagnostics.All() {
		diag.Append(d)
	}

	// IMPORTS_VALIDATED
	importedDiag := validate.ValidateImported(importedRaw, watchOnly, derivedKey.Bytes())

	// NEW_WALLET_POPULATED (modes 2-3)
	counts := logCounts{
		chained:       len(chainedRaw),
		imported:      len(importedRaw),
		comments:      len(comments),
		fileSize:      int64(wallet.Reader.Size()),
		bytesReadable: wallet.Reader.Position(),
	}
	if newWallet != nil {
		populateOutputWallet(newWallet, chain, chainResult, importedRaw, comments, opts.Mode, diag)
		if err := newWallet.Flush(); err != nil {
			return finish(opts, wallet, diag, importedDiag, counts, ErrFileIO, outputPath, err)
		}
	}

	return finish(opts, wallet, diag, importedDiag, counts, 0, outputPath, nil)
}

func withPassphrase(opts Options, pass []byte) Options {
	o := opts
	o.Passphrase = pass
	return o
}

// unlockRoot decrypts the root entry's private key and returns the
// plaintext, leaving entry.PrivKey unchanged. Recover calls it only to
// confirm that the root key unlocks and discards the plaintext.
func unlockRoot(entry *wtypes.AddressEntry, derivedKey []byte) ([]byte, error) {
	if entry == nil || len(entry.PrivKey) != 32 {
		return nil, fmt.Errorf("recoveryengine: root entry has no private key to unlock")
	}
	if !entry.UseEncryption {
		return entry.PrivKey, nil
	}
	plain, err := walletcrypt.Decrypt(derivedKey, entry.IV, entry.PrivKey)
	if err != nil {
		return nil, fmt.Errorf("recoveryengine: failed to unlock root key: %w", err)
	}
	return plain, nil
}

func populateOutputWallet(newWallet *walletio.NewWallet, chain *validate.Chain, chainResult *validate.Result, imported []*wtypes.ImportedRecord, comments []wtypes.Comment, mode Mode, diag *wtypes.Diagnostics) {
	broken := make(map[wtypes.ChainIndex]bool)
	for _, d := range diag.All() {
		switch d.Kind {
		case wtypes.DiagUnmatchedPair, wtypes.DiagHashValMismatch, wtypes.DiagInvalidPubKey:
			broken[d.ChainIndex] = true
		}
	}
	for _, idx := range chain.Indices() {
		entry, ok := chainResult.Resolved[idx]
		if !ok || broken[idx] {
			continue
		}
		newWallet.PutKeyData(entry)
	}
	if mode != ModeFull {
		return
	}
	for _, imp := range imported {
		newWallet.PutKeyData(imp.Entry)
	}
	for _, c := range comments {
		newWallet.PutComment(c)
	}
}

func flushStripped(opts Options, wallet *walletio.Wallet, newWallet *walletio.NewWallet, outputPath string) (*Result, *CommentMap, error) {
	counts := logCounts{fileSize: int64(wallet.Reader.Size()), bytesReadable: wallet.Reader.Position()}
	if err := newWallet.Flush(); err != nil {
		return finish(opts, wallet, nil, nil, counts, ErrFileIO, outputPath, err)
	}
	return finish(opts, wallet, nil, nil, counts, 0, outputPath, nil)
}

// logCounts carries the entry counts and byte accounting finish needs to
// populate logreport.Summary; the zero value is correct for any run that
// terminates before the body scan ever runs.
type logCounts struct {
	chained       int
	imported      int
	comments      int
	fileSize      int64
	bytesReadable int64
}

// finish builds the recovery log and returns the terminal Result, no
// matter which stage the run stopped at. outputPath is the actual path a
// new wallet was (or would have been) written to, already resolved from
// Options.OutputPath's default; pass "" when no output wallet was ever
// created for this run.
func finish(opts Options, wallet *walletio.Wallet, diag, importedDiag *wtypes.Diagnostics, counts logCounts, code int, outputPath string, cause error) (*Result, *CommentMap, error) {
	if diag == nil {
		diag = &wtypes.Diagnostics{}
	}
	if importedDiag == nil {
		importedDiag = &wtypes.Diagnostics{}
	}

	summary := logreport.Summary{
		Mode:          opts.Mode.String(),
		ErrorCode:     code,
		NumChained:    counts.chained,
		NumImported:   counts.imported,
		NumComments:   counts.comments,
		FileSize:      counts.fileSize,
		BytesReadable: counts.bytesReadable,
	}
	if wallet != nil {
		summary.WatchOnly = wallet.Header.WatchingOnly
	}
	if code == 0 && outputPath != "" {
		summary.RecoveredWallet = outputPath
	}

	text := logreport.Build(diag, importedDiag, summary)
	_ = logreport.Append(opts.Path, opts.OutputPath, text)

	if cause != nil && code != 0 {
		return &Result{Code: code, LogText: text}, nil, fmt.Errorf("recoveryengine: %w", cause)
	}
	return &Result{Code: code, LogText: text, RecoveredWallet: summary.RecoveredWallet}, nil, nil
}
