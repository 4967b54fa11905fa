// Package export pushes enriched leads into Salesforce. Export is strictly
// best-effort: the enrichment pipeline treats every failure here as a log
// line, never as a pipeline error.
package export

import (
	"context"
	"fmt"
	"strings"

	salesforce "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospector/internal/model"
)

// Client defines the Salesforce operations lead export uses.
type Client interface {
	Query(ctx context.Context, soql string, out any) error
	InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error)
	UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error
}

// ClientOption configures the Salesforce client.
type ClientOption func(*sfClient)

// WithRateLimit sets a per-second rate limit for Salesforce API calls.
func WithRateLimit(rps float64) ClientOption {
	return func(c *sfClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// sfClient wraps go-salesforce/v3. The underlying library does not accept
// context.Context, so ctx only governs the rate limiter wait.
type sfClient struct {
	sf      *salesforce.Salesforce
	limiter *rate.Limiter
}

// NewClient wraps a go-salesforce instance.
func NewClient(sf *salesforce.Salesforce, opts ...ClientOption) Client {
	c := &sfClient{sf: sf}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *sfClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *sfClient) Query(ctx context.Context, soql string, out any) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "sf: rate limit")
	}
	if err := c.sf.Query(soql, out); err != nil {
		return eris.Wrap(err, "sf: query")
	}
	return nil
}

func (c *sfClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", eris.Wrap(err, "sf: rate limit")
	}
	result, err := c.sf.InsertOne(sObjectName, record)
	if err != nil {
		return "", eris.Wrapf(err, "sf: insert %s", sObjectName)
	}
	if !result.Success {
		return "", eris.Errorf("sf: insert %s failed: %v", sObjectName, result.Errors)
	}
	return result.Id, nil
}

func (c *sfClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "sf: rate limit")
	}
	fields["Id"] = id
	if err := c.sf.UpdateOne(sObjectName, fields); err != nil {
		return eris.Wrapf(err, "sf: update %s %s", sObjectName, id)
	}
	return nil
}

// LeadExporter maps enrichment profiles onto the Salesforce Lead object,
// upserting on (Company, Phone) so re-enrichment refreshes the same lead.
type LeadExporter struct {
	client Client
}

// NewLeadExporter creates a LeadExporter.
func NewLeadExporter(client Client) *LeadExporter {
	return &LeadExporter{client: client}
}

type leadRecord struct {
	ID string `json:"Id"`
}

// ExportLead inserts or updates the Salesforce Lead for the profile.
func (e *LeadExporter) ExportLead(ctx context.Context, p *model.EnrichmentProfile) error {
	if p == nil || p.CompanyName == "" {
		return eris.New("export: profile needs a company name")
	}

	fields := leadFields(p)

	soql := fmt.Sprintf(
		"SELECT Id FROM Lead WHERE Company = '%s' AND Phone = '%s' LIMIT 1",
		escapeSOQL(p.CompanyName), escapeSOQL(p.Phone),
	)
	var existing []leadRecord
	if err := e.client.Query(ctx, soql, &existing); err != nil {
		return eris.Wrap(err, "export: lookup lead")
	}

	if len(existing) > 0 {
		return e.client.UpdateOne(ctx, "Lead", existing[0].ID, fields)
	}
	_, err := e.client.InsertOne(ctx, "Lead", fields)
	return err
}

// leadFields builds the Lead field map. LastName is required by Salesforce;
// the best founder candidate fills it when one exists.
func leadFields(p *model.EnrichmentProfile) map[string]any {
	fields := map[string]any{
		"Company":     p.CompanyName,
		"LastName":    "Desconocido",
		"Phone":       p.Phone,
		"City":        p.Location,
		"Industry":    p.Industry,
		"Website":     p.Website,
		"Rating":      rating(p.LeadScore),
		"LeadSource":  "Lead Enrichment",
		"Description": describeProfile(p),
	}

	if len(p.Founders) > 0 {
		first, last := splitName(p.Founders[0].Name)
		fields["FirstName"] = first
		fields["LastName"] = last
		fields["Title"] = p.Founders[0].Position
	}
	if len(p.Emails) > 0 {
		fields["Email"] = p.Emails[0].Address
	}
	return fields
}

// rating maps the lead score onto the standard Salesforce Hot/Warm/Cold
// picklist.
func rating(score int) string {
	switch {
	case score >= 70:
		return "Hot"
	case score >= 40:
		return "Warm"
	default:
		return "Cold"
	}
}

func describeProfile(p *model.EnrichmentProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead score %d, confidence %.2f.", p.LeadScore, p.ConfidenceScore)
	if len(p.Emails) > 0 {
		addrs := make([]string, len(p.Emails))
		for i, e := range p.Emails {
			addrs[i] = e.Address
		}
		fmt.Fprintf(&b, " Candidate emails: %s.", strings.Join(addrs, ", "))
	}
	if len(p.Sources) > 0 {
		fmt.Fprintf(&b, " Sources: %s.", strings.Join(p.Sources, ", "))
	}
	return b.String()
}

// splitName divides a full name into first name and surname(s). Mexican
// names usually carry two surnames, so everything after the first two
// tokens joins the last name.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", "Desconocido"
	case 1:
		return "", parts[0]
	case 2:
		return parts[0], parts[1]
	default:
		return strings.Join(parts[:2], " "), strings.Join(parts[2:], " ")
	}
}

// escapeSOQL escapes single quotes and backslashes in a SOQL string
// literal.
func escapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
