package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospector/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id               TEXT PRIMARY KEY,
	company_name     TEXT NOT NULL,
	phone            TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	industry         TEXT NOT NULL DEFAULT '',
	website          TEXT NOT NULL DEFAULT '',
	lead_score       INTEGER NOT NULL DEFAULT 0,
	confidence_score REAL NOT NULL DEFAULT 0,
	profile          TEXT NOT NULL,
	enriched_at      DATETIME,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (company_name, phone)
);

CREATE INDEX IF NOT EXISTS idx_leads_lead_score ON leads(lead_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertProfile inserts the profile or overwrites the enrichment fields of
// the existing (company_name, phone) row, refreshing updated_at.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p *model.EnrichmentProfile) (string, error) {
	if p == nil || p.CompanyName == "" {
		return "", eris.New("sqlite: profile needs a company name")
	}

	profileJSON, err := json.Marshal(p)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal profile")
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO leads (id, company_name, phone, location, industry, website, lead_score, confidence_score, profile, enriched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_name, phone) DO UPDATE SET
			location = excluded.location,
			industry = excluded.industry,
			website = excluded.website,
			lead_score = excluded.lead_score,
			confidence_score = excluded.confidence_score,
			profile = excluded.profile,
			enriched_at = excluded.enriched_at,
			updated_at = excluded.updated_at
		RETURNING id`,
		uuid.New().String(), p.CompanyName, p.Phone, p.Location, p.Industry,
		p.Website, p.LeadScore, p.ConfidenceScore, string(profileJSON),
		p.EnrichedAt, time.Now().UTC(), time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: upsert lead %s", p.CompanyName)
	}
	return id, nil
}

// GetProfile fetches the stored profile for (companyName, phone), or nil
// when absent.
func (s *SQLiteStore) GetProfile(ctx context.Context, companyName, phone string) (*model.EnrichmentProfile, error) {
	var profileJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile FROM leads WHERE company_name = ? AND phone = ?`,
		companyName, phone,
	).Scan(&profileJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", companyName)
	}

	var p model.EnrichmentProfile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return nil, eris.Wrap(err, "sqlite: decode profile")
	}
	return &p, nil
}

// ListProfiles returns stored profiles matching the filter, best scores
// first.
func (s *SQLiteStore) ListProfiles(ctx context.Context, filter ProfileFilter) ([]model.EnrichmentProfile, error) {
	query := `SELECT profile FROM leads WHERE lead_score >= ?`
	args := []any{filter.MinLeadScore}

	if filter.Industry != "" {
		query += ` AND industry = ?`
		args = append(args, filter.Industry)
	}
	query += ` ORDER BY lead_score DESC, updated_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += ` LIMIT -1`
		}
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var profiles []model.EnrichmentProfile
	for rows.Next() {
		var profileJSON string
		if err := rows.Scan(&profileJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		var p model.EnrichmentProfile
		if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: decode profile")
		}
		profiles = append(profiles, p)
	}
	return profiles, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}
