// Package store persists enrichment profiles. Two drivers implement the
// same interface: postgres for production and sqlite for offline work.
package store

import (
	"context"

	"github.com/sells-group/prospector/internal/model"
)

// ProfileFilter specifies criteria for listing stored leads.
type ProfileFilter struct {
	MinLeadScore int    `json:"min_lead_score,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// Store defines the persistence contract for enrichment profiles. A
// profile's identity is (company_name, phone): re-enriching the same
// company updates the existing row instead of inserting a duplicate.
type Store interface {
	UpsertProfile(ctx context.Context, p *model.EnrichmentProfile) (string, error)
	GetProfile(ctx context.Context, companyName, phone string) (*model.EnrichmentProfile, error)
	ListProfiles(ctx context.Context, filter ProfileFilter) ([]model.EnrichmentProfile, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
