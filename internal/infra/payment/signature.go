package payment

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// ParsePublicKey decodes the gateway's PEM-encoded RSA callback signing key.
// The key comes from configuration, never from a request.
func ParsePublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("payment: public key is not valid PEM")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("payment: public key is not RSA")
	}
	return rsaKey, nil
}

// VerifySignature checks an RSA-SHA256 (PKCS#1 v1.5) signature over the
// payload. The payload must be the callback URL reconstructed from trusted
// request metadata, never a client-supplied field. Malformed input yields
// false, never a panic or an error.
func VerifySignature(payload []byte, key *rsa.PublicKey, signature []byte) bool {
	if key == nil || len(signature) == 0 {
		return false
	}
	digest := sha256.Sum256(payload)
	return rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature) == nil
}

// RSAVerifier binds a configured public key to the callback verification
// interface the payment use case expects.
type RSAVerifier struct {
	key *rsa.PublicKey
}

func NewRSAVerifier(key *rsa.PublicKey) *RSAVerifier {
	return &RSAVerifier{key: key}
}

func (v *RSAVerifier) Verify(payload, signature []byte) bool {
	return VerifySignature(payload, v.key, signature)
}
