// Package logreport builds the human-readable recovery log of §4.F: one
// section per diagnostic kind, a trailing error line on failure, appended
// to the log file in binary append mode and closed on every exit path.
// Section wording and ordering are grounded directly on the original
// source's BuildLogFile/EndLog.
package logreport

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/armrecover/armrecover/internal/wtypes"
)

// Summary carries the counters and collections the log needs beyond the
// diagnostics themselves.
type Summary struct {
	FileSize        int64
	BytesReadable   int64
	NumChained      int
	NumImported     int
	NumComments     int
	WatchOnly       bool
	UsesEncryption  bool
	Mode            string
	ErrorCode       int
	RecoveredWallet string
}

// Build renders the full log text for one recovery run.
func Build(diag *wtypes.Diagnostics, imported *wtypes.Diagnostics, s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recovery log generated %s\r\n", time.Now().UTC().Format(time.RFC3339))
	if s.WatchOnly {
		b.WriteString("Wallet is watching-only\r\n")
	} else if s.UsesEncryption {
		b.WriteString("Wallet uses encryption\r\n")
	} else {
		b.WriteString("Wallet doesn't use encryption\r\n")
	}

	if s.Mode == "Stripped" && !s.WatchOnly {
		b.WriteString("Recovered root key and chaincode, stripped recovery done.\r\n")
		writeEnd(&b, s)
		return b.String()
	}

	fmt.Fprintf(&b, "The wallet file is %d bytes, of which %d bytes were readable\r\n", s.FileSize, s.BytesReadable)
	fmt.Fprintf(&b, "%d chain addresses, %d imported keys and %d comments were found\r\n", s.NumChained, s.NumImported, s.NumComments)

	fmt.Fprintf(&b, "Found %d chained address entries\r\n", s.NumChained)

	writeSection(&b, diag.Filter(wtypes.DiagByteError),
		"No byte errors were found in the wallet file",
		"byte errors were found in the wallet file",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   chainIndex %d at file offset %d\r\n", d.ChainIndex, d.Offset) })

	writeSection(&b, diag.Filter(wtypes.DiagBrokenSequence),
		"All chained addresses were arranged sequentially in the wallet file",
		"addresses were not arranged sequentially in the wallet file",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   chainIndex %d at file offset %d\r\n", d.ChainIndex, d.Offset) })

	writeSection(&b, diag.Filter(wtypes.DiagSequenceGap),
		"There are no gaps in the address chain",
		"gaps in the address chain",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   from chainIndex %d to %d\r\n", d.FromIndex, d.ToIndex) })

	writeSection(&b, diag.Filter(wtypes.DiagBrokenPublicKeyChain),
		"No invalid chained public address was found",
		"invalid chained public addresses",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   at chainIndex %d, file offset %d\r\n", d.ChainIndex, d.Offset) })

	writeSection(&b, diag.Filter(wtypes.DiagChainCodeCorruption),
		"No chaincode corruption was found",
		"instances of chaincode corruption",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   at chainIndex %d, file offset %d\r\n", d.ChainIndex, d.Offset) })

	writeSection(&b, diag.Filter(wtypes.DiagInvalidPubKey),
		"All chained public keys are valid EC points",
		"chained public keys are invalid EC points",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   at chainIndex %d, file offset %d\r\n", d.ChainIndex, d.Offset) })

	writeSection(&b, diag.Filter(wtypes.DiagMissingPubKey),
		"No chained public key is missing",
		"chained public keys are missing",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   at chainIndex %d, file offset %d\r\n", d.ChainIndex, d.Offset) })

	writeSection(&b, diag.Filter(wtypes.DiagHashValMismatch),
		"All entries were saved under their matching hashVal",
		"address entries were saved under an erroneous hashVal",
		func(d wtypes.Diagnostic) string { return fmt.Sprintf("   at chainIndex %d, file offset %d\r\n", d.ChainIndex, d.Offset) })

	if !s.WatchOnly {
		writeSection(&b, diag.Filter(wtypes.DiagUnmatchedPair),
			"All chained public keys match their respective private keys",
			"public keys do not match their respective private key",
			func(d wtypes.Diagnostic) string { return fmt.Sprintf("   at chainIndex %d, file offset %d\r\n", d.ChainIndex, d.Offset) })
	}

	if misc := diag.Filter(wtypes.DiagMisc); len(misc) > 0 {
		fmt.Fprintf(&b, "%d miscellaneous errors were found:\r\n", len(misc))
		for _, d := range misc {
			fmt.Fprintf(&b, "   %s\r\n", d.Text)
		}
	}
	if raw := diag.Filter(wtypes.DiagRawBinaryError); len(raw) > 0 {
		fmt.Fprintf(&b, "%d raw binary errors were found:\r\n", len(raw))
		for _, d := range raw {
			fmt.Fprintf(&b, "   at file offset %d: %s\r\n", d.Offset, d.Text)
		}
	}

	fmt.Fprintf(&b, "Found %d imported address entries\r\n", s.NumImported)
	if s.NumImported > 0 {
		errs := imported.All()
		if len(errs) == 0 {
			b.WriteString("No errors were found within the imported address entries\r\n")
		} else {
			fmt.Fprintf(&b, "%d errors were found within the imported address entries:\r\n", len(errs))
			for _, d := range errs {
				fmt.Fprintf(&b, "   %s\r\n", d.Text)
			}
		}
	}

	writeEnd(&b, s)
	return b.String()
}

func writeSection(b *strings.Builder, items []wtypes.Diagnostic, emptyMsg, nonEmptyMsg string, line func(wtypes.Diagnostic) string) {
	if len(items) == 0 {
		b.WriteString(emptyMsg)
		b.WriteString("\r\n")
		return
	}
	fmt.Fprintf(b, "%d %s:\r\n", len(items), nonEmptyMsg)
	for _, d := range items {
		b.WriteString(line(d))
	}
}

func writeEnd(b *strings.Builder, s Summary) {
	if s.ErrorCode < 0 {
		fmt.Fprintf(b, "Recovery failed: error code %d\r\n\r\n\r\n", s.ErrorCode)
		return
	}
	b.WriteString("Recovery done\r\n")
	if s.RecoveredWallet != "" {
		fmt.Fprintf(b, "Recovered wallet saved at: %s\r\n", s.RecoveredWallet)
	}
	b.WriteString("\r\n\r\n")
}

// Append writes text to <outputPath>.log (or <inputPath>.log if outputPath
// is empty), opened in binary append mode and closed unconditionally.
func Append(inputPath, outputPath, text string) error {
	target := inputPath + ".log"
	if outputPath != "" {
		target = outputPath + ".log"
	}
	f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logreport: opening log file: %w", err)
	}
	defer f.Close()
	_, err = f.WriteString(text)
	if err != nil {
		return fmt.Errorf("logreport: writing log file: %w", err)
	}
	return nil
}
