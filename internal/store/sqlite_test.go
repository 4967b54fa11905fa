package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "prospector_test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleProfile(name, phone string, score int) *model.EnrichmentProfile {
	return &model.EnrichmentProfile{
		CompanyName: name,
		Phone:       phone,
		Location:    "Ciudad de México",
		Industry:    "restaurante",
		Website:     "https://www.ejemplo.com.mx",
		Emails: []model.EmailCandidate{
			{Address: "contacto@ejemplo.com.mx", Confidence: 1, Source: model.EmailSourcePattern},
		},
		Founders:        []model.FounderCandidate{},
		LeadScore:       score,
		ConfidenceScore: 0.68,
		Sources:         []string{"email_generation"},
		EnrichedAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteStore_UpsertAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	p := sampleProfile("Tacos El Buen Sabor", "+52 55 1234 5678", 60)
	id, err := s.UpsertProfile(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.GetProfile(ctx, p.CompanyName, p.Phone)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.CompanyName, got.CompanyName)
	assert.Equal(t, 60, got.LeadScore)
	assert.Equal(t, p.Emails, got.Emails)
}

func TestSQLiteStore_UpsertIsIdempotentOnKey(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := sampleProfile("Panadería La Espiga", "33 1111 2222", 45)
	id1, err := s.UpsertProfile(ctx, first)
	require.NoError(t, err)

	// Same (company_name, phone) with new enrichment data updates in place.
	second := sampleProfile("Panadería La Espiga", "33 1111 2222", 80)
	second.Industry = "panadería"
	id2, err := s.UpsertProfile(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "conflict must keep the original row id")

	got, err := s.GetProfile(ctx, "Panadería La Espiga", "33 1111 2222")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 80, got.LeadScore)
	assert.Equal(t, "panadería", got.Industry)

	all, err := s.ListProfiles(ctx, ProfileFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate rows")
}

func TestSQLiteStore_GetProfile_Missing(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetProfile(context.Background(), "Nadie", "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ListProfiles_Filter(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.UpsertProfile(ctx, sampleProfile("Alfa", "1", 90))
	require.NoError(t, err)
	_, err = s.UpsertProfile(ctx, sampleProfile("Beta", "2", 40))
	require.NoError(t, err)
	low := sampleProfile("Gamma", "3", 70)
	low.Industry = "comercio"
	_, err = s.UpsertProfile(ctx, low)
	require.NoError(t, err)

	got, err := s.ListProfiles(ctx, ProfileFilter{MinLeadScore: 50})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alfa", got[0].CompanyName, "best score first")

	got, err = s.ListProfiles(ctx, ProfileFilter{Industry: "comercio"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gamma", got[0].CompanyName)

	got, err = s.ListProfiles(ctx, ProfileFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteStore_RejectsEmptyName(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.UpsertProfile(context.Background(), &model.EnrichmentProfile{})
	assert.Error(t, err)
}
