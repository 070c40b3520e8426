package logreport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/armrecover/armrecover/internal/wtypes"
)

func TestBuild_StrippedModeShortCircuitsBeforeBodySections(t *testing.T) {
	text := Build(&wtypes.Diagnostics{}, &wtypes.Diagnostics{}, Summary{Mode: "Stripped", WatchOnly: false})
	if !strings.Contains(text, "stripped recovery done") {
		t.Fatalf("expected the stripped short-circuit message, got:\n%s", text)
	}
	if strings.Contains(text, "chain addresses") {
		t.Fatalf("expected stripped mode to skip the body sections entirely, got:\n%s", text)
	}
}

func TestBuild_CleanRunReportsAllSectionsEmpty(t *testing.T) {
	diag := &wtypes.Diagnostics{}
	imported := &wtypes.Diagnostics{}
	text := Build(diag, imported, Summary{Mode: "Full", NumChained: 2, NumImported: 0})

	for _, want := range []string{
		"No byte errors were found",
		"arranged sequentially",
		"no gaps in the address chain",
		"No invalid chained public address was found",
		"No chaincode corruption was found",
		"All chained public keys are valid EC points",
		"No chained public key is missing",
		"All entries were saved under their matching hashVal",
		"All chained public keys match their respective private keys",
		"Recovery done",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected the report to contain %q, got:\n%s", want, text)
		}
	}
}

func TestBuild_DiagnosticsProduceCountedSections(t *testing.T) {
	diag := &wtypes.Diagnostics{}
	diag.Append(wtypes.Diagnostic{Kind: wtypes.DiagByteError, ChainIndex: 3, Offset: 900})
	diag.Append(wtypes.Diagnostic{Kind: wtypes.DiagSequenceGap, FromIndex: 1, ToIndex: 4})

	text := Build(diag, &wtypes.Diagnostics{}, Summary{Mode: "Full", NumChained: 5})

	if !strings.Contains(text, "1 byte errors were found in the wallet file") {
		t.Fatalf("expected a counted byte-error section, got:\n%s", text)
	}
	if !strings.Contains(text, "chainIndex 3 at file offset 900") {
		t.Fatalf("expected the byte-error detail line, got:\n%s", text)
	}
	if !strings.Contains(text, "from chainIndex 1 to 4") {
		t.Fatalf("expected the gap detail line, got:\n%s", text)
	}
}

func TestBuild_UnmatchedPairSectionIsSkippedForWatchOnly(t *testing.T) {
	diag := &wtypes.Diagnostics{}
	diag.Append(wtypes.Diagnostic{Kind: wtypes.DiagUnmatchedPair, ChainIndex: 0})

	text := Build(diag, &wtypes.Diagnostics{}, Summary{Mode: "Full", WatchOnly: true})
	if strings.Contains(text, "match their respective private key") {
		t.Fatalf("expected no private-key-match section for a watch-only wallet, got:\n%s", text)
	}
}

func TestBuild_ErrorCodeReportsFailureInsteadOfDone(t *testing.T) {
	text := Build(&wtypes.Diagnostics{}, &wtypes.Diagnostics{}, Summary{Mode: "Full", ErrorCode: -10})
	if !strings.Contains(text, "Recovery failed: error code -10") {
		t.Fatalf("expected a failure line, got:\n%s", text)
	}
	if strings.Contains(text, "Recovery done") {
		t.Fatalf("expected no success line on failure, got:\n%s", text)
	}
}

func TestBuild_RecoveredWalletPathIsReportedOnSuccess(t *testing.T) {
	text := Build(&wtypes.Diagnostics{}, &wtypes.Diagnostics{}, Summary{Mode: "Full", RecoveredWallet: "/tmp/out.wallet"})
	if !strings.Contains(text, "Recovered wallet saved at: /tmp/out.wallet") {
		t.Fatalf("expected the recovered wallet path to be reported, got:\n%s", text)
	}
}

func TestBuild_ImportedEntriesSectionReportsErrors(t *testing.T) {
	imported := &wtypes.Diagnostics{}
	imported.Append(wtypes.Diagnostic{Kind: wtypes.DiagImportedError, ImportedIdx: 2, Text: "no private key present"})

	text := Build(&wtypes.Diagnostics{}, imported, Summary{Mode: "Full", NumImported: 1})
	if !strings.Contains(text, "1 errors were found within the imported address entries") {
		t.Fatalf("expected an imported-errors count line, got:\n%s", text)
	}
	if !strings.Contains(text, "no private key present") {
		t.Fatalf("expected the imported error text, got:\n%s", text)
	}
}

func TestAppend_CreatesAndAppendsToTheLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recovered.wallet")

	if err := Append(path, "", "first\r\n"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Append(path, "", "second\r\n"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path + ".log")
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if string(data) != "first\r\nsecond\r\n" {
		t.Fatalf("expected both appends to accumulate, got %q", string(data))
	}
}

func TestAppend_PrefersOutputPathOverInputPath(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wallet")
	outPath := filepath.Join(dir, "out.wallet")

	if err := Append(inPath, outPath, "text\r\n"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := os.Stat(outPath + ".log"); err != nil {
		t.Fatalf("expected the log to be written next to the output path: %v", err)
	}
	if _, err := os.Stat(inPath + ".log"); !os.IsNotExist(err) {
		t.Fatal("expected no log file next to the input path when an output path is given")
	}
}
