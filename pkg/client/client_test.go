package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/armrecover/armrecover/internal/address"
	"github.com/armrecover/armrecover/internal/binreader"
	"github.com/armrecover/armrecover/internal/chainkey"
	"github.com/armrecover/armrecover/internal/wtypes"
)

// buildWatchOnlyWallet writes a minimal, watch-only wallet file (a header
// that carries the root entry, and an empty body) and returns its path.
func buildWatchOnlyWallet(t *testing.T, dir string) string {
	t.Helper()

	priv := make([]byte, 32)
	priv[31] = 7
	pub, err := chainkey.ComputePublicKey(priv)
	if err != nil {
		t.Fatalf("computing root public key: %v", err)
	}
	hash := chainkey.Hash160(pub)

	root := &wtypes.AddressEntry{
		Hash160:    hash,
		ChainIndex: wtypes.ChainIndexRoot,
		HasPub:     true,
		PubKey:     pub,
	}

	header := &wtypes.Header{
		UniqueIDB58:  "test-unique-id",
		LabelName:    "test wallet",
		WatchingOnly: true,
		Root:         root,
	}

	w := binreader.NewWriter(1024)
	// Inlined rather than imported from walletio to keep this fixture
	// builder independent of that package's internal framing choices.
	writeHeader(t, w, header)

	path := filepath.Join(dir, "watchonly.wallet")
	if err := os.WriteFile(path, w.Bytes(), 0o600); err != nil {
		t.Fatalf("writing fixture wallet: %v", err)
	}
	return path
}

func TestRecoverWallet_CheckModeWatchOnly(t *testing.T) {
	dir := t.TempDir()
	path := buildWatchOnlyWallet(t, dir)

	result, comments, err := RecoverWallet(path, nil, "Check", nil)
	if err != nil {
		t.Fatalf("RecoverWallet returned error: %v", err)
	}
	if comments != nil {
		t.Fatalf("Check mode should not return a CommentMap")
	}
	if result.Code != 0 {
		t.Fatalf("expected success code 0, got %d", result.Code)
	}
	if result.LogText == "" {
		t.Fatal("expected non-empty log text")
	}
}

func TestRecoverWallet_MetaModeReturnsAddresses(t *testing.T) {
	dir := t.TempDir()
	path := buildWatchOnlyWallet(t, dir)

	_, comments, err := RecoverWallet(path, nil, "Meta", nil)
	if err != nil {
		t.Fatalf("RecoverWallet returned error: %v", err)
	}
	if comments == nil {
		t.Fatal("Meta mode should return a CommentMap")
	}
	if comments.Addresses == nil {
		t.Fatal("expected a non-nil Addresses map, even when empty")
	}
}

func TestRecoverWalletWithOptions_UsesExplicitOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := buildWatchOnlyWallet(t, dir)
	outPath := filepath.Join(dir, "custom-output.wallet")

	result, _, err := RecoverWalletWithOptions(path, nil, "Bare", outPath, nil)
	if err != nil {
		t.Fatalf("RecoverWalletWithOptions returned error: %v", err)
	}
	if result.RecoveredWallet != outPath {
		t.Fatalf("expected recovered wallet at %q, got %q", outPath, result.RecoveredWallet)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected recovered wallet file to exist at %q: %v", outPath, err)
	}
}

func TestRecoverWallet_DefaultOutputPathReported(t *testing.T) {
	dir := t.TempDir()
	path := buildWatchOnlyWallet(t, dir)

	result, _, err := RecoverWallet(path, nil, "Bare", nil)
	if err != nil {
		t.Fatalf("RecoverWallet returned error: %v", err)
	}
	wantPath := path + "_RECOVERED.wallet"
	if result.RecoveredWallet != wantPath {
		t.Fatalf("expected default recovered wallet path %q, got %q", wantPath, result.RecoveredWallet)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected recovered wallet file to exist at %q: %v", wantPath, err)
	}
}

func TestRecoverWallet_StrippedMode(t *testing.T) {
	dir := t.TempDir()
	path := buildWatchOnlyWallet(t, dir)

	_, _, err := RecoverWallet(path, nil, "Stripped", nil)
	if err != nil {
		t.Fatalf("stripped recovery on a watch-only wallet should be a no-op, got: %v", err)
	}
}

func TestRecoverWallet_UnknownMode(t *testing.T) {
	dir := t.TempDir()
	path := buildWatchOnlyWallet(t, dir)

	if _, _, err := RecoverWallet(path, nil, "Nonsense", nil); err == nil {
		t.Fatal("expected an error for an unrecognized mode")
	}
}

func TestRecoverWallet_MissingFile(t *testing.T) {
	_, _, err := RecoverWallet(filepath.Join(t.TempDir(), "missing.wallet"), nil, "Check", nil)
	if err == nil {
		t.Fatal("expected an error for a missing wallet file")
	}
}

// writeHeader mirrors walletio.WriteHeader's framing for test fixtures.
func writeHeader(t *testing.T, w *binreader.Writer, h *wtypes.Header) {
	t.Helper()
	w.PutBytes([]byte("ARMRECOV"))
	w.PutU32LE(1)
	w.PutBytes([]byte{h.NetworkByte})

	var flags byte
	if h.WatchingOnly {
		flags |= 1 << 0
	}
	if h.IsLocked {
		flags |= 1 << 1
	}
	w.PutBytes([]byte{flags})

	putLenPrefixed(w, []byte(h.UniqueIDB58))
	putLenPrefixed(w, []byte(h.LabelName))
	putLenPrefixed(w, []byte(h.LabelDescr))

	w.PutBytes([]byte{0}) // no KDF
	putLenPrefixed(w, h.EncryptVerifyHash)
	w.PutBytes(address.Encode(h.Root))
}

func putLenPrefixed(w *binreader.Writer, b []byte) {
	w.PutU16LE(uint16(len(b)))
	w.PutBytes(b)
}
