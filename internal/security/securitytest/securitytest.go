// Package securitytest builds token providers for tests of packages that verify bearer tokens.
package securitytest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"workspace-control-plane/internal/security"
)

const (
	Issuer   = "wcp-test"
	Audience = "wcp-test-api"
)

// NewTokenProvider returns a provider that signs and verifies ES256 tokens with a fresh P-256 key.
func NewTokenProvider(t testing.TB) *security.TokenProvider {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate signing key: %v", err)
	}
	return security.NewTokenProvider(key, key.Public(), Issuer, Audience, 15*time.Minute)
}
