package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOfficialWebsite(t *testing.T) {
	results := []SearchResult{
		{Title: "Directorio", URL: "https://www.seccionamarilla.com.mx/resultados/tacoselbuensabor"},
		{Title: "Sitio Oficial", URL: "https://www.tacoselbuensabor.com.mx"},
		{Title: "Facebook", URL: "https://www.facebook.com/tacoselbuensabor"},
	}

	// The directory URL contains the slug only in its path, so the real
	// site host wins.
	got := FindOfficialWebsite(results, "Tacos El Buen Sabor")
	assert.Equal(t, "https://www.tacoselbuensabor.com.mx", got)
}

func TestFindOfficialWebsite_NoMatch(t *testing.T) {
	results := []SearchResult{
		{URL: "https://www.facebook.com/otraempresa"},
		{URL: "https://www.ejemplo.org"},
	}
	assert.Equal(t, "", FindOfficialWebsite(results, "Tacos El Buen Sabor"))
	assert.Equal(t, "", FindOfficialWebsite(nil, "Tacos El Buen Sabor"))
	assert.Equal(t, "", FindOfficialWebsite(results, ""))
}

func TestFindOfficialWebsite_FirstMatchWins(t *testing.T) {
	results := []SearchResult{
		{URL: "https://tortasdona.com"},
		{URL: "https://tortasdona.com.mx"},
	}
	assert.Equal(t, "https://tortasdona.com", FindOfficialWebsite(results, "Tortas Doña"))
}

func TestSimulatedProvider_Deterministic(t *testing.T) {
	ctx := context.Background()
	a := NewSimulated(42)
	b := NewSimulated(42)

	fa, err := a.Founders(ctx, "Panadería La Espiga", "Guadalajara")
	require.NoError(t, err)
	fb, err := b.Founders(ctx, "Panadería La Espiga", "Guadalajara")
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	sa, err := a.SocialProfiles(ctx, "Panadería La Espiga")
	require.NoError(t, err)
	sb, err := b.SocialProfiles(ctx, "Panadería La Espiga")
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}

func TestSimulatedProvider_FounderBounds(t *testing.T) {
	ctx := context.Background()
	p := NewSimulated(0)

	for _, name := range []string{"Alfa", "Beta Consultores", "Gamma SA de CV", "Delta", "Épsilon"} {
		founders, err := p.Founders(ctx, name, "México")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(founders), 2)
		for _, f := range founders {
			assert.GreaterOrEqual(t, f.Confidence, 0.4)
			assert.LessOrEqual(t, f.Confidence, 0.7)
			assert.NotEmpty(t, f.Name)
			assert.NotEmpty(t, f.Position)
		}
	}
}

func TestSimulatedProvider_SearchTemplatesOfficialSite(t *testing.T) {
	ctx := context.Background()
	p := NewSimulated(7)

	results, err := p.Search(ctx, "Tacos El Buen Sabor", "Ciudad de México")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "https://www.tacoselbuensabor.com.mx", FindOfficialWebsite(results, "Tacos El Buen Sabor"))
}

func TestSimulatedProvider_EmptySlug(t *testing.T) {
	ctx := context.Background()
	p := NewSimulated(7)

	results, err := p.Search(ctx, "S.A. de C.V.", "México")
	require.NoError(t, err)
	assert.Empty(t, results)

	profiles, err := p.SocialProfiles(ctx, "S.A. de C.V.")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
