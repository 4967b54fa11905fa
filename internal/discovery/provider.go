// Package discovery defines the pluggable web-discovery seam of the
// enrichment pipeline. The orchestrator only sees the Provider interface,
// so a real search or scraping backend can replace the simulated one
// without touching scoring or orchestration.
package discovery

import (
	"context"
	"strings"

	"github.com/sells-group/prospector/internal/contact"
	"github.com/sells-group/prospector/internal/model"
)

// SearchResult is one candidate web page for a company.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider supplies candidate web pages, founders, and social profiles
// for a company.
type Provider interface {
	Search(ctx context.Context, companyName, location string) ([]SearchResult, error)
	Founders(ctx context.Context, companyName, location string) ([]model.FounderCandidate, error)
	SocialProfiles(ctx context.Context, companyName string) (map[string]string, error)
}

// commercialTLDs are the suffixes accepted for an official company site.
var commercialTLDs = []string{".com.mx", ".mx", ".com"}

// FindOfficialWebsite picks the first result whose URL both contains the
// slugged company name and ends in a Mexican or generic commercial TLD.
// Returns "" when nothing matches.
func FindOfficialWebsite(results []SearchResult, companyName string) string {
	slug := contact.Slug(companyName)
	if slug == "" {
		return ""
	}

	for _, r := range results {
		u := strings.ToLower(strings.TrimRight(r.URL, "/"))
		host := u
		if i := strings.Index(host, "://"); i >= 0 {
			host = host[i+3:]
		}
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		if !strings.Contains(host, slug) {
			continue
		}
		for _, tld := range commercialTLDs {
			if strings.HasSuffix(host, tld) {
				return r.URL
			}
		}
	}
	return ""
}
