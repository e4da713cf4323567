package verifier

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	hex "github.com/tmthrgd/go-hex"
)

const PkTypePEM = "PEM"

// secp256k1, sha256(msg), 签名为r||s（可带v），公钥为33/65字节的点
func verifyECDSA(sig, pkType, pk string, msg []byte) bool {
	digest := sha256.Sum256(msg)
	sigBytes := DecodeBytes(sig)
	if len(sigBytes) == 65 {
		sigBytes = sigBytes[:64]
	}

	if isPem(pkType, pk) {
		pub, err := parsePemPublicKey(pk)
		if err != nil {
			return false
		}
		if len(sigBytes) == 64 {
			r := new(big.Int).SetBytes(sigBytes[:32])
			s := new(big.Int).SetBytes(sigBytes[32:])
			return ecdsa.Verify(pub, digest[:], r, s)
		}
		return ecdsa.VerifyASN1(pub, digest[:], sigBytes)
	}

	if len(sigBytes) != 64 {
		return false
	}
	return crypto.VerifySignature(DecodeBytes(pk), digest[:], sigBytes)
}

// DecodeBytes reads key and signature material: hex first, then standard
// base64, otherwise the raw bytes.
func DecodeBytes(s string) []byte {
	s = strings.TrimSpace(s)
	h := strings.TrimPrefix(s, "0x")
	if h != "" && len(h)%2 == 0 {
		if b, err := hex.DecodeString(h); err == nil {
			return b
		}
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b
	}
	return []byte(s)
}

func isPem(pkType, pk string) bool {
	return strings.EqualFold(strings.TrimSpace(pkType), PkTypePEM) ||
		strings.HasPrefix(strings.TrimSpace(pk), "-----BEGIN")
}

func parsePemPublicKey(s string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(s)))
	if block == nil {
		return nil, errors.New("pem decode failed")
	}

	var key interface{}
	if cert, err := x509.ParseCertificate(block.Bytes); err == nil {
		key = cert.PublicKey
	} else {
		key, err = x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
	}

	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("not an ecdsa public key")
	}
	return pub, nil
}
