// Package enrich orchestrates the lead-enrichment pipeline: cached lookup,
// web discovery, email generation, founder search, industry detection,
// social lookup, scoring, and the cache/persistence side effects.
package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/cache"
	"github.com/sells-group/prospector/internal/contact"
	"github.com/sells-group/prospector/internal/discovery"
	"github.com/sells-group/prospector/internal/industry"
	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/scorer"
	"github.com/sells-group/prospector/internal/store"
)

// ErrMissingName rejects input records without a company name. This is the
// only error Enrich returns; discovery and storage faults degrade to a
// partial profile instead.
var ErrMissingName = eris.New("enrich: company name is required")

// Mode controls whether enrichment records side effects. Memory-only mode
// (RecordSideEffects false) never touches cache, store, or CRM.
type Mode struct {
	RecordSideEffects bool
}

// Exporter pushes a finished profile to an external CRM. Implementations
// must never block enrichment output: failures are logged and swallowed.
type Exporter interface {
	ExportLead(ctx context.Context, p *model.EnrichmentProfile) error
}

// Options tunes the pipeline.
type Options struct {
	LocalParts []string
	MaxEmails  int
	Taxonomy   []industry.Entry
	CacheTTL   time.Duration
}

// Enricher builds enrichment profiles for companies. All collaborators are
// injected; cache, store, and exporter may be nil.
type Enricher struct {
	provider   discovery.Provider
	cache      cache.Cache
	store      store.Store
	exporter   Exporter
	gen        *contact.Generator
	classifier *industry.Classifier
	cacheTTL   time.Duration
	mode       Mode
	now        func() time.Time
}

// New creates an Enricher.
func New(provider discovery.Provider, c cache.Cache, st store.Store, exporter Exporter, mode Mode, opts Options) *Enricher {
	if c == nil {
		c = cache.Nop{}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Enricher{
		provider:   provider,
		cache:      c,
		store:      st,
		exporter:   exporter,
		gen:        contact.NewGenerator(opts.LocalParts, opts.MaxEmails),
		classifier: industry.New(opts.Taxonomy),
		cacheTTL:   ttl,
		mode:       mode,
		now:        time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (e *Enricher) WithNow(now func() time.Time) *Enricher {
	e.now = now
	return e
}

// Enrich builds a profile for one company. Apart from a missing name,
// every failure is best-effort: the partially-built profile comes back
// with enrichment_error set instead of an error.
func (e *Enricher) Enrich(ctx context.Context, input model.CompanyInput) (*model.EnrichmentProfile, error) {
	input.Normalize()
	if input.Name == "" {
		return nil, ErrMissingName
	}

	log := zap.L().With(zap.String("company", input.Name), zap.String("location", input.Location))

	// Cache check: a hit is returned verbatim, TTL untouched.
	key := cache.Key(input.Name, input.Location)
	if e.mode.RecordSideEffects {
		cached, err := e.cache.GetProfile(ctx, key)
		if err != nil {
			log.Warn("enrich: cache read failed, treating as miss", zap.Error(err))
		} else if cached != nil {
			log.Debug("enrich: cache hit")
			return cached, nil
		}
	}

	start := e.now()
	profile := &model.EnrichmentProfile{
		CompanyName: input.Name,
		Phone:       input.Phone,
		Location:    input.Location,
		Industry:    input.Industry,
		Emails:      []model.EmailCandidate{},
		Founders:    []model.FounderCandidate{},
	}

	recordErr := func(stage string, err error) {
		log.Warn("enrich: stage failed", zap.String("stage", stage), zap.Error(err))
		if profile.EnrichmentError == "" {
			profile.EnrichmentError = eris.Wrapf(err, "enrich: %s", stage).Error()
		}
	}

	// Web discovery.
	var results []discovery.SearchResult
	if err := step(func() error {
		var err error
		results, err = e.provider.Search(ctx, input.Name, input.Location)
		return err
	}); err != nil {
		recordErr("web_search", err)
	} else if len(results) > 0 {
		profile.AddSource("web_search")
	}

	// Official website.
	if site := discovery.FindOfficialWebsite(results, input.Name); site != "" {
		profile.Website = site
		profile.AddSource("official_website")
	}

	// Email generation from the known or guessed domain.
	website := input.Website
	if website == "" {
		website = profile.Website
	}
	if emails := e.gen.FindContactEmails(input.Name, website); len(emails) > 0 {
		profile.Emails = emails
		profile.AddSource("email_generation")
	}

	// Founder search.
	if err := step(func() error {
		founders, err := e.provider.Founders(ctx, input.Name, input.Location)
		if err != nil {
			return err
		}
		if len(founders) > 0 {
			profile.Founders = founders
			profile.AddSource("founder_search")
		}
		return nil
	}); err != nil {
		recordErr("founder_search", err)
	}

	// Industry detection, only when the caller did not supply one.
	if profile.Industry == "" {
		profile.Industry = e.classifier.Detect(input.Name, results)
	}

	// Social media lookup.
	if err := step(func() error {
		social, err := e.provider.SocialProfiles(ctx, input.Name)
		if err != nil {
			return err
		}
		if len(social) > 0 {
			profile.SocialMedia = social
			profile.AddSource("social_media")
		}
		return nil
	}); err != nil {
		recordErr("social_media", err)
	}

	// Scoring is the last mutation the profile sees.
	scorer.Apply(profile)
	profile.EnrichedAt = e.now().UTC()
	profile.ProcessingTimeMS = e.now().Sub(start).Milliseconds()

	if e.mode.RecordSideEffects {
		e.recordSideEffects(ctx, log, key, profile)
	}

	log.Info("enrich: profile complete",
		zap.Int("lead_score", profile.LeadScore),
		zap.Float64("confidence", profile.ConfidenceScore),
		zap.Strings("sources", profile.Sources),
		zap.Int64("duration_ms", profile.ProcessingTimeMS),
	)
	return profile, nil
}

// recordSideEffects writes the finished profile to cache, store, and CRM.
// All three are best-effort: a storage fault never blocks the response.
func (e *Enricher) recordSideEffects(ctx context.Context, log *zap.Logger, key string, profile *model.EnrichmentProfile) {
	if err := e.cache.SetProfile(ctx, key, profile, e.cacheTTL); err != nil {
		log.Warn("enrich: cache write failed", zap.Error(err))
	}

	if e.store != nil {
		if id, err := e.store.UpsertProfile(ctx, profile); err != nil {
			log.Error("enrich: persist failed", zap.Error(err))
		} else {
			log.Debug("enrich: lead persisted", zap.String("lead_id", id))
		}
	}

	if e.exporter != nil {
		if err := e.exporter.ExportLead(ctx, profile); err != nil {
			log.Warn("enrich: crm export failed", zap.Error(err))
		}
	}
}

// step runs one pipeline stage, converting a panic inside a discovery
// implementation into an ordinary error.
func step(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
