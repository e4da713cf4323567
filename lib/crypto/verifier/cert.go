package verifier

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
)

var ErrNotCertificate = errors.New("no pem certificate block")

// ParseCertificate decodes the first PEM block of s as an X.509 certificate.
func ParseCertificate(s string) (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(s)))
	if block == nil {
		return nil, ErrNotCertificate
	}
	return x509.ParseCertificate(block.Bytes)
}

func verifyCertificate(certPem, issuerPem string) bool {
	cert, err := ParseCertificate(certPem)
	if err != nil {
		return false
	}
	issuer, err := ParseCertificate(issuerPem)
	if err != nil {
		return false
	}

	switch issuer.PublicKeyAlgorithm {
	case x509.RSA, x509.ECDSA:
	default:
		return false
	}
	return issuer.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}
