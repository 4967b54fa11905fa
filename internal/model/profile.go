package model

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultLocation is assumed when an input record carries no location.
const DefaultLocation = "México"

// EmailSource describes how an email candidate was obtained.
type EmailSource string

const (
	EmailSourcePattern    EmailSource = "pattern_generation"
	EmailSourceDiscovered EmailSource = "discovered"
)

// CompanyInput is a raw business record submitted for enrichment.
type CompanyInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
}

// UnmarshalJSON accepts the alternate field names used by upstream lead
// sources (Spanish-language CRMs and scraped directories).
func (c *CompanyInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pick := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := raw[k]; ok {
				var s string
				if err := json.Unmarshal(v, &s); err == nil && s != "" {
					return s
				}
			}
		}
		return ""
	}

	c.Name = pick("name", "company_name", "company", "empresa")
	c.Phone = pick("phone", "phone_number", "telefono")
	c.Location = pick("location", "city", "ciudad", "ubicacion")
	c.Industry = pick("industry", "sector", "giro", "industria")
	c.Website = pick("website", "url", "sitio_web")
	return nil
}

// Normalize trims whitespace and applies the default location.
func (c *CompanyInput) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Location = strings.TrimSpace(c.Location)
	c.Industry = strings.TrimSpace(c.Industry)
	c.Website = strings.TrimSpace(c.Website)
	if c.Location == "" {
		c.Location = DefaultLocation
	}
}

// EmailCandidate is a corporate email address guess with its confidence.
type EmailCandidate struct {
	Address    string      `json:"address"`
	Confidence float64     `json:"confidence"`
	Source     EmailSource `json:"source"`
	Priority   int         `json:"priority"`
	Validated  bool        `json:"validated"`
}

// FounderCandidate is a possible founder or principal of the company.
type FounderCandidate struct {
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// EnrichmentProfile is the structured result of enriching one company.
// A profile is built once per enrichment call and is immutable after the
// scoring step fills in LeadScore and ConfidenceScore.
type EnrichmentProfile struct {
	CompanyName      string             `json:"company_name"`
	Phone            string             `json:"phone,omitempty"`
	Location         string             `json:"location"`
	Industry         string             `json:"industry,omitempty"`
	Emails           []EmailCandidate   `json:"emails"`
	Founders         []FounderCandidate `json:"founders"`
	Website          string             `json:"website,omitempty"`
	SocialMedia      map[string]string  `json:"social_media,omitempty"`
	LeadScore        int                `json:"lead_score"`
	ConfidenceScore  float64            `json:"confidence_score"`
	Sources          []string           `json:"sources"`
	EnrichedAt       time.Time          `json:"enriched_at"`
	ProcessingTimeMS int64              `json:"processing_time_ms"`
	EnrichmentError  string             `json:"enrichment_error,omitempty"`
}

// AddSource records a discovery stage that contributed data, preserving
// insertion order and skipping duplicates.
func (p *EnrichmentProfile) AddSource(name string) {
	for _, s := range p.Sources {
		if s == name {
			return
		}
	}
	p.Sources = append(p.Sources, name)
}

// BatchItem is the per-company outcome of a batch run.
type BatchItem struct {
	Profile *EnrichmentProfile `json:"profile,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of a batch enrichment.
type BatchResult struct {
	Processed  int         `json:"processed"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Items      []BatchItem `json:"items"`
}
