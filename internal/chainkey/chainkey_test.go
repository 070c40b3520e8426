package chainkey

import "testing"

func testPriv(last byte) []byte {
	priv := make([]byte, 32)
	priv[31] = last
	return priv
}

func TestComputePublicKey_IsValidCurvePoint(t *testing.T) {
	pub, err := ComputePublicKey(testPriv(7))
	if err != nil {
		t.Fatalf("ComputePublicKey: %v", err)
	}
	if len(pub) != 65 {
		t.Fatalf("expected a 65-byte uncompressed public key, got %d bytes", len(pub))
	}
	if !VerifyPublicKey(pub) {
		t.Fatal("derived public key did not verify as a valid curve point")
	}
}

func TestCheckPubPrivKeyMatch(t *testing.T) {
	priv := testPriv(11)
	pub, err := ComputePublicKey(priv)
	if err != nil {
		t.Fatalf("ComputePublicKey: %v", err)
	}
	if !CheckPubPrivKeyMatch(priv, pub) {
		t.Fatal("expected the derived public key to match its private key")
	}
	if CheckPubPrivKeyMatch(testPriv(12), pub) {
		t.Fatal("a different private key should not match")
	}
}

func TestVerifyPublicKey_RejectsGarbage(t *testing.T) {
	if VerifyPublicKey(make([]byte, 65)) {
		t.Fatal("an all-zero buffer must not be a valid curve point")
	}
}

func TestChainStep_PublicAndPrivateKeysAgree(t *testing.T) {
	priv := testPriv(3)
	pub, err := ComputePublicKey(priv)
	if err != nil {
		t.Fatalf("ComputePublicKey: %v", err)
	}

	var chaincode [32]byte
	chaincode[31] = 5

	childPub, err := ComputeChainedPublicKey(pub, chaincode[:])
	if err != nil {
		t.Fatalf("ComputeChainedPublicKey: %v", err)
	}
	childPriv, err := ComputeChainedPrivateKey(priv, chaincode[:])
	if err != nil {
		t.Fatalf("ComputeChainedPrivateKey: %v", err)
	}
	recomputedChildPub, err := ComputePublicKey(childPriv)
	if err != nil {
		t.Fatalf("ComputePublicKey(childPriv): %v", err)
	}
	if !bytesEqual(childPub, recomputedChildPub) {
		t.Fatal("chaining the public key and chaining the private key must land on the same child key pair")
	}
}

func TestChainStep_IsDeterministic(t *testing.T) {
	priv := testPriv(42)
	pub, _ := ComputePublicKey(priv)
	var chaincode [32]byte
	chaincode[0] = 0xAB

	a, err := ComputeChainedPublicKey(pub, chaincode[:])
	if err != nil {
		t.Fatalf("ComputeChainedPublicKey: %v", err)
	}
	b, err := ComputeChainedPublicKey(pub, chaincode[:])
	if err != nil {
		t.Fatalf("ComputeChainedPublicKey: %v", err)
	}
	if !bytesEqual(a, b) {
		t.Fatal("chain-stepping the same key with the same chaincode must be deterministic")
	}
}

func TestHash160_Length(t *testing.T) {
	h := Hash160([]byte("anything"))
	if len(h) != 20 {
		t.Fatalf("expected a 20-byte hash160, got %d", len(h))
	}
}
