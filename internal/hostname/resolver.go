package hostname

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"workspace-control-plane/internal/platform/errs"
)

// Cache stores successful resolutions. Hostnames are never reassigned, so only hits are cached.
type Cache interface {
	Get(ctx context.Context, hostname string) (string, bool, error)
	Set(ctx context.Context, hostname, target string, ttl time.Duration) error
}

// Resolver answers whether a hostname is registered and maps it to its external URL.
type Resolver struct {
	checker    Checker
	scheme     string
	baseDomain string
	cache      Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewResolver returns a Resolver that builds URLs as scheme://hostname.baseDomain.
// An empty scheme defaults to https. cache may be nil.
func NewResolver(checker Checker, scheme, baseDomain string, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *Resolver {
	if scheme == "" {
		scheme = "https"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		checker:    checker,
		scheme:     scheme,
		baseDomain: strings.Trim(baseDomain, "."),
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Exists reports whether hostname is held by a workspace.
func (r *Resolver) Exists(ctx context.Context, hostname string) (bool, error) {
	hostname = canonical(hostname)
	if hostname == "" {
		return false, nil
	}
	if _, ok := r.cached(ctx, hostname); ok {
		return true, nil
	}
	return r.checker.ExistsByHostname(ctx, hostname)
}

// Resolve returns the external URL for hostname, or errs.ErrNotFound when it is unregistered.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (string, error) {
	hostname = canonical(hostname)
	if hostname == "" {
		return "", errs.NotFound("hostname %q is not registered", hostname)
	}
	if target, ok := r.cached(ctx, hostname); ok {
		return target, nil
	}
	exists, err := r.checker.ExistsByHostname(ctx, hostname)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errs.NotFound("hostname %q is not registered", hostname)
	}
	target := r.URL(hostname)
	if r.cache != nil {
		if err := r.cache.Set(ctx, hostname, target, r.cacheTTL); err != nil {
			r.logger.Warn("hostname cache set", zap.String("hostname", hostname), zap.Error(err))
		}
	}
	return target, nil
}

// URL builds the external URL of hostname without checking registration.
func (r *Resolver) URL(hostname string) string {
	host := hostname
	if r.baseDomain != "" {
		host = hostname + "." + r.baseDomain
	}
	return (&url.URL{Scheme: r.scheme, Host: host}).String()
}

func (r *Resolver) cached(ctx context.Context, hostname string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	target, ok, err := r.cache.Get(ctx, hostname)
	if err != nil {
		r.logger.Warn("hostname cache get", zap.String("hostname", hostname), zap.Error(err))
		return "", false
	}
	return target, ok
}

func canonical(hostname string) string {
	return strings.ToLower(strings.TrimSpace(hostname))
}
