package hostname

import (
	"context"
	"math/rand/v2"

	"workspace-control-plane/internal/platform/errs"
)

const (
	// DefaultMaxAttempts is the number of suffixed candidates tried after the base collides.
	DefaultMaxAttempts = 20
	// FallbackBase replaces a candidate that normalizes to nothing.
	FallbackBase = "workspace"
)

// Checker reports whether a hostname is already held by a workspace.
type Checker interface {
	ExistsByHostname(ctx context.Context, hostname string) (bool, error)
}

// RandomSource yields suffix numbers. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Allocator picks an unused hostname for a new workspace.
type Allocator struct {
	checker     Checker
	rand        RandomSource
	maxAttempts int
}

// NewAllocator returns an Allocator over checker. A nil rnd uses the process-wide math/rand/v2 source,
// which is safe for concurrent use; callers passing their own source own its synchronization.
// maxAttempts < 1 uses DefaultMaxAttempts.
func NewAllocator(checker Checker, rnd RandomSource, maxAttempts int) *Allocator {
	if rnd == nil {
		rnd = globalSource{}
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{checker: checker, rand: rnd, maxAttempts: maxAttempts}
}

// Allocate normalizes candidate and returns it if unused; otherwise it tries up to maxAttempts
// "base-NNN" variants and fails with errs.ErrAllocationExhausted. A candidate with no [a-z0-9]
// characters, such as a non-Latin name, skips the bare check and draws "workspace-NNN" variants.
// The result was free when checked, but the caller must still handle a conflict at insert time.
func (a *Allocator) Allocate(ctx context.Context, candidate string) (string, error) {
	base := Normalize(candidate)
	if base == "" {
		base = FallbackBase
	} else {
		taken, err := a.checker.ExistsByHostname(ctx, base)
		if err != nil {
			return "", err
		}
		if !taken {
			return base, nil
		}
	}
	for i := 0; i < a.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		h := WithSuffix(base, a.rand.IntN(SuffixSpace))
		taken, err := a.checker.ExistsByHostname(ctx, h)
		if err != nil {
			return "", err
		}
		if !taken {
			return h, nil
		}
	}
	return "", errs.AllocationExhausted("no free hostname for %q after %d attempts", base, a.maxAttempts)
}
