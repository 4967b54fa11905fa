package contact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/prospector/internal/model"
)

// unrankedPriority is assigned to local-parts outside the configured list.
const unrankedPriority = 99

// DefaultLocalParts is the priority-ordered list of local-parts generated
// for a guessed domain. Earlier entries are stronger candidates for a
// Mexican SMB inbox.
var DefaultLocalParts = []string{
	"contacto", "info", "ventas", "administracion", "gerencia",
	"atencion", "comercial", "direccion", "director",
}

// Generator produces candidate corporate email addresses for a company.
type Generator struct {
	localParts []string
	maxEmails  int
}

// NewGenerator creates a Generator. Empty localParts falls back to
// DefaultLocalParts; maxEmails <= 0 falls back to 5.
func NewGenerator(localParts []string, maxEmails int) *Generator {
	if len(localParts) == 0 {
		localParts = DefaultLocalParts
	}
	if maxEmails <= 0 {
		maxEmails = 5
	}
	return &Generator{localParts: localParts, maxEmails: maxEmails}
}

// FindContactEmails generates ranked email candidates for the company.
// Candidates are sorted by priority ascending, then confidence descending,
// then address ascending, and truncated to the configured cap. The sort
// order is a committed contract: "contacto" and "info" stay first.
func (g *Generator) FindContactEmails(companyName, website string) []model.EmailCandidate {
	domain := GuessDomain(companyName, website)
	if domain == "" || strings.HasPrefix(domain, ".") {
		return []model.EmailCandidate{}
	}

	slug := Slug(companyName)
	candidates := make([]model.EmailCandidate, 0, len(g.localParts))
	for rank, local := range g.localParts {
		candidates = append(candidates, model.EmailCandidate{
			Address:    fmt.Sprintf("%s@%s", local, domain),
			Confidence: g.confidence(local, rank, domain, slug),
			Source:     model.EmailSourcePattern,
			Priority:   rank,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Address < candidates[j].Address
	})

	if len(candidates) > g.maxEmails {
		candidates = candidates[:g.maxEmails]
	}
	return candidates
}

// confidence scores one candidate address.
func (g *Generator) confidence(local string, rank int, domain, slug string) float64 {
	conf := 0.5

	prefix := slug
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	if prefix != "" && strings.Contains(domain, prefix) {
		conf += 0.3
	}

	// The two highest-priority local-parts are the ones businesses
	// actually publish.
	if rank < 2 && rank < len(g.localParts) {
		conf += 0.2
	}

	if strings.HasSuffix(domain, ".com.mx") {
		conf += 0.1
	}

	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

// PriorityOf returns the rank of a local-part in the configured list, or
// unrankedPriority when absent.
func (g *Generator) PriorityOf(local string) int {
	for i, lp := range g.localParts {
		if lp == local {
			return i
		}
	}
	return unrankedPriority
}
