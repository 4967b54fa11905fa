package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (used by tests).
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	company_name     TEXT NOT NULL,
	phone            TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	industry         TEXT NOT NULL DEFAULT '',
	website          TEXT NOT NULL DEFAULT '',
	lead_score       INTEGER NOT NULL DEFAULT 0,
	confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	profile          JSONB NOT NULL,
	enriched_at      TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (company_name, phone)
);

CREATE INDEX IF NOT EXISTS idx_leads_lead_score ON leads(lead_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
`

const upsertLeadSQL = `
INSERT INTO leads (id, company_name, phone, location, industry, website, lead_score, confidence_score, profile, enriched_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (company_name, phone) DO UPDATE SET
	location = EXCLUDED.location,
	industry = EXCLUDED.industry,
	website = EXCLUDED.website,
	lead_score = EXCLUDED.lead_score,
	confidence_score = EXCLUDED.confidence_score,
	profile = EXCLUDED.profile,
	enriched_at = EXCLUDED.enriched_at,
	updated_at = EXCLUDED.updated_at
RETURNING id`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// UpsertProfile inserts the profile or overwrites the enrichment fields of
// the existing (company_name, phone) row, refreshing updated_at.
func (s *PostgresStore) UpsertProfile(ctx context.Context, p *model.EnrichmentProfile) (string, error) {
	if p == nil || p.CompanyName == "" {
		return "", eris.New("postgres: profile needs a company name")
	}

	profileJSON, err := json.Marshal(p)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal profile")
	}

	var id string
	err = s.pool.QueryRow(ctx, upsertLeadSQL,
		uuid.New().String(), p.CompanyName, p.Phone, p.Location, p.Industry,
		p.Website, p.LeadScore, p.ConfidenceScore, profileJSON, p.EnrichedAt,
		time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: upsert lead %s", p.CompanyName)
	}
	return id, nil
}

// GetProfile fetches the stored profile for (companyName, phone), or nil
// when absent.
func (s *PostgresStore) GetProfile(ctx context.Context, companyName, phone string) (*model.EnrichmentProfile, error) {
	var profileJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM leads WHERE company_name = $1 AND phone = $2`,
		companyName, phone,
	).Scan(&profileJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", companyName)
	}

	var p model.EnrichmentProfile
	if err := json.Unmarshal(profileJSON, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: decode profile")
	}
	return &p, nil
}

// ListProfiles returns stored profiles matching the filter, best scores
// first.
func (s *PostgresStore) ListProfiles(ctx context.Context, filter ProfileFilter) ([]model.EnrichmentProfile, error) {
	query := `SELECT profile FROM leads WHERE lead_score >= $1`
	args := []any{filter.MinLeadScore}

	if filter.Industry != "" {
		query += fmt.Sprintf(` AND industry = $%d`, len(args)+1)
		args = append(args, filter.Industry)
	}
	query += ` ORDER BY lead_score DESC, updated_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var profiles []model.EnrichmentProfile
	for rows.Next() {
		var profileJSON []byte
		if err := rows.Scan(&profileJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		var p model.EnrichmentProfile
		if err := json.Unmarshal(profileJSON, &p); err != nil {
			return nil, eris.Wrap(err, "postgres: decode profile")
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "postgres: iterate leads")
}
