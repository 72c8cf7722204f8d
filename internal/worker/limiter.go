package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ppiankov/jurisflow/internal/model"
)

// Limiter throttles documents per variant, so a flood of one kind of
// document (and its LLM calls) does not starve the others.
type Limiter struct {
	limiters     map[model.Variant]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables limiting.
func NewLimiter(documentsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(documentsPerSecond)
	if documentsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[model.Variant]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait waits for clearance to process a document of the variant
func (l *Limiter) Wait(ctx context.Context, variant model.Variant) error {
	return l.getLimiter(variant).Wait(ctx)
}

// Allow checks if a document may start without waiting
func (l *Limiter) Allow(variant model.Variant) bool {
	return l.getLimiter(variant).Allow()
}

// getLimiter returns the rate limiter for a variant
func (l *Limiter) getLimiter(variant model.Variant) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[variant]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[variant]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[variant] = limiter

	return limiter
}

// SetVariantRate sets a custom rate for one variant
func (l *Limiter) SetVariantRate(variant model.Variant, documentsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[variant] = rate.NewLimiter(rate.Limit(documentsPerSecond), burst)
}
