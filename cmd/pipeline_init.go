package main

import (
	"context"
	"time"

	salesforce "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/batch"
	"github.com/sells-group/prospector/internal/cache"
	"github.com/sells-group/prospector/internal/discovery"
	"github.com/sells-group/prospector/internal/enrich"
	"github.com/sells-group/prospector/internal/export"
	"github.com/sells-group/prospector/internal/industry"
	"github.com/sells-group/prospector/internal/store"
)

// pipelineEnv holds the initialized collaborators the enrich/batch/serve
// commands share.
type pipelineEnv struct {
	Store    store.Store // nil in memory-only mode
	Cache    cache.Cache
	Enricher *enrich.Enricher
	Coord    *batch.Coordinator
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Cache != nil {
		_ = pe.Cache.Close()
	}
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline wires store, cache, discovery, optional Salesforce export,
// and the enricher. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env := &pipelineEnv{Cache: cache.Nop{}}

	if cfg.Enrich.RecordSideEffects {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		env.Store = st

		if cfg.Cache.Addr != "" {
			c, err := cache.NewRedis(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
			if err != nil {
				env.Close()
				return nil, err
			}
			env.Cache = c
		} else {
			zap.L().Debug("PROSPECTOR_CACHE_ADDR not set, profile caching disabled")
		}
	} else {
		zap.L().Info("memory-only mode: cache, store, and crm export disabled")
	}

	var taxonomy []industry.Entry
	if cfg.Enrich.TaxonomyPath != "" {
		var err error
		taxonomy, err = industry.LoadTaxonomy(cfg.Enrich.TaxonomyPath)
		if err != nil {
			env.Close()
			return nil, err
		}
		zap.L().Info("custom industry taxonomy loaded",
			zap.String("path", cfg.Enrich.TaxonomyPath),
			zap.Int("entries", len(taxonomy)),
		)
	}

	var exporter enrich.Exporter
	if cfg.Enrich.RecordSideEffects && cfg.Salesforce.Domain != "" {
		sfExporter, err := initSalesforce()
		if err != nil {
			env.Close()
			return nil, err
		}
		exporter = sfExporter
		zap.L().Info("salesforce lead export enabled")
	}

	env.Enricher = enrich.New(
		discovery.NewSimulated(cfg.Enrich.DiscoverySeed),
		env.Cache,
		env.Store,
		exporter,
		enrich.Mode{RecordSideEffects: cfg.Enrich.RecordSideEffects},
		enrich.Options{
			LocalParts: cfg.Enrich.LocalParts,
			MaxEmails:  cfg.Enrich.MaxEmails,
			Taxonomy:   taxonomy,
			CacheTTL:   time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		},
	)
	env.Coord = batch.New(env.Enricher, cfg.Batch.RatePerSecond, cfg.Batch.Concurrency)

	return env, nil
}

// initStore opens the configured persistence backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "prospector.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initSalesforce authenticates with the client-credentials flow.
func initSalesforce() (*export.LeadExporter, error) {
	if cfg.Salesforce.ConsumerKey == "" {
		return nil, eris.New("salesforce consumer key is required (PROSPECTOR_SALESFORCE_CONSUMER_KEY)")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.Domain,
		ConsumerKey:    cfg.Salesforce.ConsumerKey,
		ConsumerSecret: cfg.Salesforce.ConsumerSecret,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	client := export.NewClient(sf, export.WithRateLimit(cfg.Salesforce.RateLimit))
	return export.NewLeadExporter(client), nil
}
