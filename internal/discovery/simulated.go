package discovery

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/contact"
	"github.com/sells-group/prospector/internal/model"
)

// founderRoster is the fixed candidate pool the simulated provider draws
// from. Real deployments replace this provider entirely.
var founderRoster = []struct {
	Name     string
	Position string
}{
	{"Juan Carlos Hernández", "Director General"},
	{"María Guadalupe Ramírez", "Fundadora"},
	{"José Luis Martínez", "Gerente General"},
	{"Ana Patricia López", "Directora Comercial"},
	{"Roberto Sánchez", "Fundador"},
	{"Carmen Aguilar", "Administradora Única"},
}

var socialPlatforms = []struct {
	Platform string
	URLBase  string
}{
	{"facebook", "https://www.facebook.com/"},
	{"instagram", "https://www.instagram.com/"},
	{"linkedin", "https://www.linkedin.com/company/"},
	{"twitter", "https://x.com/"},
}

// SimulatedProvider synthesizes plausible-looking discovery output from the
// company name and location. With a non-zero seed, output is fully
// reproducible; with a zero seed, per-company output is still deterministic
// because the RNG is keyed on a hash of the company name.
type SimulatedProvider struct {
	seed int64
}

// NewSimulated creates a SimulatedProvider with the given seed.
func NewSimulated(seed int64) *SimulatedProvider {
	return &SimulatedProvider{seed: seed}
}

// rng returns a generator keyed on the seed and company name so that each
// company gets stable output independent of call order.
func (p *SimulatedProvider) rng(companyName string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(companyName))
	return rand.New(rand.NewSource(p.seed ^ int64(h.Sum64())))
}

// Search returns templated directory-style results for the company.
func (p *SimulatedProvider) Search(ctx context.Context, companyName, location string) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug := contact.Slug(companyName)
	if slug == "" {
		return []SearchResult{}, nil
	}

	results := []SearchResult{
		{
			Title:   fmt.Sprintf("%s - Sitio Oficial", companyName),
			URL:     fmt.Sprintf("https://www.%s.com.mx", slug),
			Snippet: fmt.Sprintf("%s en %s. Conoce nuestros productos y servicios. Contacto y horarios.", companyName, location),
		},
		{
			Title:   fmt.Sprintf("%s | Directorio de Empresas", companyName),
			URL:     fmt.Sprintf("https://www.seccionamarilla.com.mx/resultados/%s", slug),
			Snippet: fmt.Sprintf("Teléfono, dirección y opiniones de %s en %s.", companyName, location),
		},
		{
			Title:   fmt.Sprintf("%s - Facebook", companyName),
			URL:     fmt.Sprintf("https://www.facebook.com/%s", slug),
			Snippet: fmt.Sprintf("Página oficial de %s. Síguenos para promociones y novedades.", companyName),
		},
	}

	zap.L().Debug("discovery: simulated search",
		zap.String("company", companyName),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Founders draws zero to two candidates from the fixed roster.
func (p *SimulatedProvider) Founders(ctx context.Context, companyName, location string) ([]model.FounderCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := p.rng(companyName)
	count := rng.Intn(3)
	founders := make([]model.FounderCandidate, 0, count)

	perm := rng.Perm(len(founderRoster))
	for i := 0; i < count; i++ {
		entry := founderRoster[perm[i]]
		founders = append(founders, model.FounderCandidate{
			Name:       entry.Name,
			Position:   entry.Position,
			Confidence: 0.4 + 0.3*rng.Float64(),
			Source:     "simulated_search",
		})
	}
	return founders, nil
}

// SocialProfiles returns a randomized subset of platform handles.
func (p *SimulatedProvider) SocialProfiles(ctx context.Context, companyName string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug := contact.Slug(companyName)
	if slug == "" {
		return map[string]string{}, nil
	}

	rng := p.rng(companyName)
	profiles := make(map[string]string)
	for _, sp := range socialPlatforms {
		if rng.Float64() < 0.5 {
			profiles[sp.Platform] = sp.URLBase + slug
		}
	}
	return profiles, nil
}
