package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"
)

// Key pairs generated once per test binary.
var (
	testPrivateKeyPEM, testPublicKeyPEM       = mustPEMPair(ecdsa.GenerateKey(elliptic.P256(), rand.Reader))
	testRSAPrivateKeyPEM, testRSAPublicKeyPEM = mustPEMPair(rsa.GenerateKey(rand.Reader, 2048))
)

func mustPEMPair[K crypto.Signer](key K, err error) (string, string) {
	if err != nil {
		panic(err)
	}
	priv, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		panic(err)
	}
	pub, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		panic(err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: priv})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub}))
}

func newTestTokenProvider(t *testing.T) *TokenProvider {
	t.Helper()
	p, err := LoadTokenProvider(testPrivateKeyPEM, testPublicKeyPEM, "test-issuer", "test-audience", 15*time.Minute)
	if err != nil {
		t.Fatalf("LoadTokenProvider: %v", err)
	}
	return p
}
