package contact

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector/internal/model"
)

func TestFindContactEmails_GeneratesRankedCandidates(t *testing.T) {
	g := NewGenerator(nil, 5)

	emails := g.FindContactEmails("Tacos El Buen Sabor", "")
	require.Len(t, emails, 5)

	assert.Equal(t, "contacto@tacoselbuensabor.com.mx", emails[0].Address)
	assert.Equal(t, "info@tacoselbuensabor.com.mx", emails[1].Address)

	// Matching domain (+0.3), top-two local-part (+0.2), .com.mx (+0.1)
	// on top of the 0.5 base, clamped to 1.
	assert.Equal(t, 1.0, emails[0].Confidence)
	assert.Equal(t, 1.0, emails[1].Confidence)
	assert.InDelta(t, 0.9, emails[2].Confidence, 1e-9)

	for _, e := range emails {
		assert.Equal(t, model.EmailSourcePattern, e.Source)
		assert.GreaterOrEqual(t, e.Confidence, 0.0)
		assert.LessOrEqual(t, e.Confidence, 1.0)
	}
}

func TestFindContactEmails_SortContract(t *testing.T) {
	g := NewGenerator(nil, 9)
	emails := g.FindContactEmails("Constructora Norte", "")

	// Priority ascending primary, confidence descending secondary.
	sorted := sort.SliceIsSorted(emails, func(i, j int) bool {
		if emails[i].Priority != emails[j].Priority {
			return emails[i].Priority < emails[j].Priority
		}
		return emails[i].Confidence > emails[j].Confidence
	})
	assert.True(t, sorted)
}

func TestFindContactEmails_CapRespected(t *testing.T) {
	for _, cap := range []int{3, 4, 5} {
		g := NewGenerator(nil, cap)
		emails := g.FindContactEmails("Ferretería Díaz", "")
		assert.LessOrEqual(t, len(emails), cap)
	}
}

func TestFindContactEmails_EmptySlugReturnsEmpty(t *testing.T) {
	g := NewGenerator(nil, 5)
	emails := g.FindContactEmails("S.A. de C.V.", "")
	assert.NotNil(t, emails)
	assert.Empty(t, emails)
}

func TestFindContactEmails_ForeignDomainLowerConfidence(t *testing.T) {
	g := NewGenerator(nil, 5)
	emails := g.FindContactEmails("Tacos El Buen Sabor", "https://tacoselbuensabor.com")
	require.NotEmpty(t, emails)

	// No .com.mx bonus: contacto = 0.5 + 0.3 + 0.2, ventas = 0.5 + 0.3.
	assert.InDelta(t, 1.0, emails[0].Confidence, 1e-9)
	assert.InDelta(t, 0.8, emails[2].Confidence, 1e-9)
}

func TestPriorityOf(t *testing.T) {
	g := NewGenerator(nil, 5)
	assert.Equal(t, 0, g.PriorityOf("contacto"))
	assert.Equal(t, 1, g.PriorityOf("info"))
	assert.Equal(t, unrankedPriority, g.PriorityOf("rrhh"))
}
