package hostname

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"workspace-control-plane/internal/platform/errs"
)

type mockCache struct {
	entries map[string]string
	ttls    map[string]time.Duration
	getErr  error
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCache) Get(ctx context.Context, hostname string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.entries[hostname]
	return v, ok, nil
}

func (m *mockCache) Set(ctx context.Context, hostname, target string, ttl time.Duration) error {
	m.sets++
	m.entries[hostname] = target
	m.ttls[hostname] = ttl
	return nil
}

func TestResolver_Exists(t *testing.T) {
	r := NewResolver(newMockChecker("acme"), "", "example.com", nil, 0, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		in   string
		want bool
	}{
		{"acme", true},
		{" ACME ", true},
		{"globex", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := r.Exists(ctx, tt.in)
		if err != nil {
			t.Fatalf("Exists(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(newMockChecker("acme"), "https", ".example.com", nil, 0, nil)

	got, err := r.Resolve(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://acme.example.com" {
		t.Errorf("url = %q, want https://acme.example.com", got)
	}
}

func TestResolver_ResolveNotFound(t *testing.T) {
	r := NewResolver(newMockChecker(), "https", "example.com", nil, 0, nil)
	for _, h := range []string{"missing", ""} {
		_, err := r.Resolve(context.Background(), h)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Resolve(%q) err = %v, want ErrNotFound", h, err)
		}
	}
}

func TestResolver_URLWithoutBaseDomain(t *testing.T) {
	r := NewResolver(newMockChecker(), "http", "", nil, 0, nil)
	if got := r.URL("acme"); got != "http://acme" {
		t.Errorf("URL = %q, want http://acme", got)
	}
}

func TestResolver_CachesPositiveResolutions(t *testing.T) {
	checker := newMockChecker("acme")
	cache := newMockCache()
	r := NewResolver(checker, "https", "example.com", cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := r.Resolve(ctx, "acme")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != "https://acme.example.com" {
			t.Errorf("url = %q", got)
		}
	}
	if len(checker.calls) != 1 {
		t.Errorf("store lookups = %d, want 1", len(checker.calls))
	}
	if cache.sets != 1 || cache.ttls["acme"] != time.Minute {
		t.Errorf("cache sets = %d ttl = %v", cache.sets, cache.ttls["acme"])
	}
	exists, err := r.Exists(ctx, "acme")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v", exists, err)
	}
	if len(checker.calls) != 1 {
		t.Errorf("Exists should be served from cache, lookups = %d", len(checker.calls))
	}

	if _, err := r.Resolve(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, ok := cache.entries["missing"]; ok {
		t.Error("misses must not be cached")
	}
}

func TestResolver_CacheErrorFallsBackToStore(t *testing.T) {
	cache := newMockCache()
	cache.getErr = errors.New("redis down")
	r := NewResolver(newMockChecker("acme"), "https", "example.com", cache, time.Minute, zap.NewNop())

	got, err := r.Resolve(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://acme.example.com" {
		t.Errorf("url = %q", got)
	}
}
