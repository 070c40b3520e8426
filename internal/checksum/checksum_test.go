package checksum

import (
	"bytes"
	"testing"
)

func TestVerify_ExactMatch(t *testing.T) {
	data := []byte("the quick brown fox")
	chk := Of(data)

	out, ok, repaired := Verify(data, chk)
	if !ok || repaired {
		t.Fatalf("expected an unrepaired match, got ok=%v repaired=%v", ok, repaired)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("expected data returned unchanged")
	}
}

func TestVerify_SingleBitFlipIsRepaired(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	chk := Of(data)

	corrupted := append([]byte(nil), data...)
	corrupted[2] ^= 1 << 3

	out, ok, repaired := Verify(corrupted, chk)
	if !ok || !repaired {
		t.Fatalf("expected a repaired match, got ok=%v repaired=%v", ok, repaired)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("repaired bytes %v do not match original %v", out, data)
	}
}

func TestVerify_MultiBitCorruptionIsUnrecoverable(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	chk := Of(data)

	corrupted := append([]byte(nil), data...)
	corrupted[0] ^= 0xFF
	corrupted[1] ^= 0xFF

	out, ok, repaired := Verify(corrupted, chk)
	if ok || repaired || out != nil {
		t.Fatalf("expected an unrecoverable mismatch, got out=%v ok=%v repaired=%v", out, ok, repaired)
	}
}

func TestHash256_IsDoubleSHA256(t *testing.T) {
	a := Hash256([]byte("armory"))
	b := Hash256([]byte("armory"))
	if a != b {
		t.Fatal("Hash256 must be deterministic")
	}
	if Hash256([]byte("armory")) == Hash256([]byte("ARMORY")) {
		t.Fatal("different inputs must not collide trivially")
	}
}
