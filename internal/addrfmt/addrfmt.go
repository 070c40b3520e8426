// Package addrfmt renders a recovered address entry's hash160 as the
// base58check string a wallet owner actually recognizes, instead of raw
// hex. It is pure presentation: nothing upstream of the log builder or
// CommentMap needs it, and a format error here never fails a recovery.
package addrfmt

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// netForByte maps a wallet header's single network byte to the chain
// params btcutil needs for base58check encoding. Armory's network byte
// for mainnet is 0x00, matching Bitcoin's standard P2PKH version byte;
// anything else is treated as testnet3 rather than rejected, since display
// formatting should degrade gracefully.
func netForByte(b byte) *chaincfg.Params {
	if b == chaincfg.MainNetParams.PubKeyHashAddrID {
		return &chaincfg.MainNetParams
	}
	return &chaincfg.TestNet3Params
}

// Base58Check renders hash160 as a P2PKH address string for the network
// identified by netByte. Returns "" if btcutil rejects the hash length,
// which cannot happen for a wtypes.AddressEntry's fixed [20]byte field but
// is handled rather than ignored since the constructor returns an error.
func Base58Check(hash160 [20]byte, netByte byte) string {
	addr, err := btcutil.NewAddressPubKeyHash(hash160[:], netForByte(netByte))
	if err != nil {
		return ""
	}
	return addr.EncodeAddress()
}
