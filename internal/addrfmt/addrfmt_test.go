package addrfmt

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
)

func TestBase58Check_MainnetPrefix(t *testing.T) {
	var hash160 [20]byte
	for i := range hash160 {
		hash160[i] = byte(i)
	}

	addr := Base58Check(hash160, chaincfg.MainNetParams.PubKeyHashAddrID)
	if addr == "" {
		t.Fatal("expected a non-empty address string")
	}
	if !strings.HasPrefix(addr, "1") {
		t.Fatalf("expected a mainnet P2PKH address starting with '1', got %q", addr)
	}
}

func TestBase58Check_UnknownNetworkFallsBackToTestnet(t *testing.T) {
	var hash160 [20]byte
	addr := Base58Check(hash160, 0xFF)
	if addr == "" {
		t.Fatal("expected a non-empty address string for an unrecognized network byte")
	}
	if !strings.HasPrefix(addr, "m") && !strings.HasPrefix(addr, "n") {
		t.Fatalf("expected a testnet P2PKH address starting with 'm' or 'n', got %q", addr)
	}
}

func TestBase58Check_Deterministic(t *testing.T) {
	var hash160 [20]byte
	for i := range hash160 {
		hash160[i] = byte(i * 3)
	}
	a := Base58Check(hash160, chaincfg.MainNetParams.PubKeyHashAddrID)
	b := Base58Check(hash160, chaincfg.MainNetParams.PubKeyHashAddrID)
	if a != b {
		t.Fatalf("expected deterministic output, got %q and %q", a, b)
	}
}
