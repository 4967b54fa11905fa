package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // postgres | sqlite
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// CacheConfig configures the Redis lookaside cache. An empty Addr disables
// caching entirely.
type CacheConfig struct {
	Addr       string `yaml:"addr" mapstructure:"addr"`
	Password   string `yaml:"password" mapstructure:"password"`
	DB         int    `yaml:"db" mapstructure:"db"`
	TTLSeconds int    `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// EnrichConfig configures the enrichment pipeline.
type EnrichConfig struct {
	// RecordSideEffects controls whether cache writes, persistence, and
	// CRM export run at all. False means memory-only enrichment.
	RecordSideEffects bool `yaml:"record_side_effects" mapstructure:"record_side_effects"`
	// LocalParts is the priority-ordered list of email local-parts to
	// generate. Order is the committed priority contract.
	LocalParts []string `yaml:"local_parts" mapstructure:"local_parts"`
	// MaxEmails caps the returned email candidates after sorting.
	MaxEmails int `yaml:"max_emails" mapstructure:"max_emails"`
	// DiscoverySeed seeds the simulated discovery provider. Zero derives
	// deterministic output from the company name.
	DiscoverySeed int64 `yaml:"discovery_seed" mapstructure:"discovery_seed"`
	// TaxonomyPath optionally overrides the built-in industry taxonomy.
	TaxonomyPath string `yaml:"taxonomy_path" mapstructure:"taxonomy_path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	// RatePerSecond throttles companies entering enrichment. The default
	// of 1 preserves one-second spacing between external lookups.
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Concurrency   int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// SalesforceConfig holds optional CRM export credentials. Export is
// disabled when Domain is empty.
type SalesforceConfig struct {
	Domain         string  `yaml:"domain" mapstructure:"domain"`
	ConsumerKey    string  `yaml:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret string  `yaml:"consumer_secret" mapstructure:"consumer_secret"`
	RateLimit      float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("enrich.record_side_effects", true)
	v.SetDefault("enrich.local_parts", []string{
		"contacto", "info", "ventas", "administracion", "gerencia",
		"atencion", "comercial", "direccion", "director",
	})
	v.SetDefault("enrich.max_emails", 5)
	v.SetDefault("batch.rate_per_second", 1.0)
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("salesforce.rate_limit", 5.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.Enrich.RecordSideEffects && c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required when side effects are enabled (set PROSPECTOR_STORE_DATABASE_URL or use the sqlite driver)")
	}
	if c.Store.Driver != "postgres" && c.Store.Driver != "sqlite" {
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Enrich.MaxEmails <= 0 {
		return eris.New("config: enrich.max_emails must be positive")
	}
	if c.Batch.Concurrency <= 0 {
		return eris.New("config: batch.concurrency must be positive")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
