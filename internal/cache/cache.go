// Package cache provides the lookaside profile cache. The orchestrator
// works identically, just slower, when no cache backend is configured.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/prospector/internal/contact"
	"github.com/sells-group/prospector/internal/model"
)

// Cache is the keyed lookaside cache for enrichment profiles. A miss is
// (nil, nil); backends never surface their own faults past the interface
// boundary without the caller deciding what to do with them.
type Cache interface {
	GetProfile(ctx context.Context, key string) (*model.EnrichmentProfile, error)
	SetProfile(ctx context.Context, key string, p *model.EnrichmentProfile, ttl time.Duration) error
	Close() error
}

// Key builds the cache key for a company and location. Both parts are
// slugged so spacing, casing, and accents do not fragment the cache.
func Key(companyName, location string) string {
	return fmt.Sprintf("enrich:%s:%s", contact.Slug(companyName), contact.Slug(location))
}

// Nop is a no-op Cache for memory-only mode: every read misses and every
// write is discarded.
type Nop struct{}

func (Nop) GetProfile(context.Context, string) (*model.EnrichmentProfile, error) { return nil, nil }

func (Nop) SetProfile(context.Context, string, *model.EnrichmentProfile, time.Duration) error {
	return nil
}

func (Nop) Close() error { return nil }
