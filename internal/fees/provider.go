package fees

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// FeeConfig is the pair of commission percentages in force.
type FeeConfig struct {
	ClientFeePercent   decimal.Decimal
	ProviderFeePercent decimal.Decimal
}

// Validate checks both percentages.
func (c FeeConfig) Validate() error {
	if err := ValidatePercent(c.ClientFeePercent); err != nil {
		return fmt.Errorf("client fee: %w", err)
	}
	if err := ValidatePercent(c.ProviderFeePercent); err != nil {
		return fmt.Errorf("provider fee: %w", err)
	}
	return nil
}

// Source loads the current fee configuration from its backing store.
type Source interface {
	FeeConfig(ctx context.Context) (FeeConfig, error)
}

// Provider hands out the fee configuration new transactions snapshot.
type Provider interface {
	Current(ctx context.Context) (FeeConfig, error)
}

// StaticSource always returns the same configuration.
type StaticSource FeeConfig

// FeeConfig implements Source.
func (s StaticSource) FeeConfig(context.Context) (FeeConfig, error) {
	return FeeConfig(s), nil
}

// CachedProvider memoises a Source for a fixed TTL. When a refresh fails
// and a previous value exists, the stale value is served.
type CachedProvider struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu        sync.Mutex
	cached    *FeeConfig
	expiresAt time.Time
}

// NewCachedProvider creates a CachedProvider. A zero ttl disables caching.
func NewCachedProvider(source Source, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Current returns the cached configuration or reloads it from the source.
func (p *CachedProvider) Current(ctx context.Context) (FeeConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.cached != nil && now.Before(p.expiresAt) {
		return *p.cached, nil
	}

	cfg, err := p.source.FeeConfig(ctx)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		if p.cached != nil {
			p.logger.Warn("fee config refresh failed, serving stale value", "error", err)
			return *p.cached, nil
		}
		return FeeConfig{}, fmt.Errorf("failed to load fee config: %w", err)
	}

	p.cached = &cfg
	p.expiresAt = now.Add(p.ttl)

	return cfg, nil
}

// Invalidate drops the cached value so the next call reloads it.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
}
