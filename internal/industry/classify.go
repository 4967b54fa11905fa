// Package industry classifies companies into a fixed taxonomy by keyword
// matching against the company name and discovered page snippets.
package industry

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospector/internal/contact"
	"github.com/sells-group/prospector/internal/discovery"
)

// Fallback is returned when no taxonomy entry matches.
const Fallback = "general"

// Entry maps an industry label to its trigger keywords. Entries are
// evaluated in declared order; the first keyword hit wins.
type Entry struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// DefaultTaxonomy is the built-in ordered industry table. Order is a
// tie-break policy: earlier entries win when several would match.
var DefaultTaxonomy = []Entry{
	{"restaurante", []string{"taco", "comida", "restaurant", "cocina", "menu", "antojitos", "mariscos"}},
	{"panadería", []string{"pan", "panaderia", "reposteria", "pastel"}},
	{"construcción", []string{"construccion", "constructora", "obra", "arquitect", "inmobiliaria"}},
	{"tecnología", []string{"software", "sistemas", "tecnologia", "digital", "computacion"}},
	{"salud", []string{"clinica", "consultorio", "farmacia", "dental", "medic"}},
	{"educación", []string{"escuela", "colegio", "instituto", "academia", "universidad"}},
	{"servicios", []string{"consultoria", "asesoria", "servicios", "despacho", "agencia"}},
	{"comercio", []string{"tienda", "abarrotes", "ferreteria", "comercial", "distribuidora", "venta"}},
}

// Classifier detects an industry from company name and web results.
type Classifier struct {
	taxonomy []Entry
}

// New creates a Classifier over the given taxonomy; nil falls back to
// DefaultTaxonomy.
func New(taxonomy []Entry) *Classifier {
	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy
	}
	return &Classifier{taxonomy: taxonomy}
}

// LoadTaxonomy reads an ordered taxonomy from a YAML file.
func LoadTaxonomy(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "industry: read taxonomy file")
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "industry: parse taxonomy file")
	}
	for _, e := range entries {
		if e.Label == "" || len(e.Keywords) == 0 {
			return nil, eris.New("industry: taxonomy entries need a label and at least one keyword")
		}
	}
	return entries, nil
}

// Detect returns the first industry whose any keyword appears in the
// folded company name or result snippets. Keyword and text comparison is
// accent-insensitive, so "panadería" matches the "panaderia" keyword.
func (c *Classifier) Detect(companyName string, results []discovery.SearchResult) string {
	var b strings.Builder
	b.WriteString(companyName)
	for _, r := range results {
		b.WriteByte(' ')
		b.WriteString(r.Title)
		b.WriteByte(' ')
		b.WriteString(r.Snippet)
	}
	text := contact.Fold(b.String())

	for _, entry := range c.taxonomy {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, contact.Fold(kw)) {
				return entry.Label
			}
		}
	}
	return Fallback
}
