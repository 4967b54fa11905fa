package export

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector/internal/model"
)

// fakeClient records Salesforce calls and returns canned lookup results.
type fakeClient struct {
	existingID string
	queryErr   error

	queries  []string
	inserted []map[string]any
	updated  map[string]map[string]any
}

func newFakeClient() *fakeClient {
	return &fakeClient{updated: map[string]map[string]any{}}
}

func (f *fakeClient) Query(ctx context.Context, soql string, out any) error {
	f.queries = append(f.queries, soql)
	if f.queryErr != nil {
		return f.queryErr
	}
	records := out.(*[]leadRecord)
	if f.existingID != "" {
		*records = []leadRecord{{ID: f.existingID}}
	}
	return nil
}

func (f *fakeClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	f.inserted = append(f.inserted, record)
	return "00Q000000000001", nil
}

func (f *fakeClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	f.updated[id] = fields
	return nil
}

func sampleProfile() *model.EnrichmentProfile {
	return &model.EnrichmentProfile{
		CompanyName: "Tacos El Buen Sabor",
		Phone:       "+52 55 1234 5678",
		Location:    "Ciudad de México",
		Industry:    "restaurante",
		Website:     "https://www.tacoselbuensabor.com.mx",
		Emails: []model.EmailCandidate{
			{Address: "contacto@tacoselbuensabor.com.mx", Confidence: 1},
		},
		Founders: []model.FounderCandidate{
			{Name: "María Guadalupe Ramírez", Position: "Fundadora", Confidence: 0.6},
		},
		LeadScore:       85,
		ConfidenceScore: 0.8,
		Sources:         []string{"web_search", "email_generation"},
	}
}

func TestExportLead_InsertsNewLead(t *testing.T) {
	client := newFakeClient()
	exp := NewLeadExporter(client)

	require.NoError(t, exp.ExportLead(context.Background(), sampleProfile()))
	require.Len(t, client.inserted, 1)

	fields := client.inserted[0]
	assert.Equal(t, "Tacos El Buen Sabor", fields["Company"])
	assert.Equal(t, "María Guadalupe", fields["FirstName"])
	assert.Equal(t, "Ramírez", fields["LastName"])
	assert.Equal(t, "Fundadora", fields["Title"])
	assert.Equal(t, "contacto@tacoselbuensabor.com.mx", fields["Email"])
	assert.Equal(t, "Hot", fields["Rating"])
	assert.Empty(t, client.updated)
}

func TestExportLead_UpdatesExistingLead(t *testing.T) {
	client := newFakeClient()
	client.existingID = "00Q000000000042"
	exp := NewLeadExporter(client)

	require.NoError(t, exp.ExportLead(context.Background(), sampleProfile()))
	assert.Empty(t, client.inserted)
	require.Contains(t, client.updated, "00Q000000000042")
	assert.Equal(t, "Tacos El Buen Sabor", client.updated["00Q000000000042"]["Company"])
}

func TestExportLead_NoFoundersUsesPlaceholderName(t *testing.T) {
	client := newFakeClient()
	exp := NewLeadExporter(client)

	p := sampleProfile()
	p.Founders = nil
	require.NoError(t, exp.ExportLead(context.Background(), p))

	fields := client.inserted[0]
	assert.Equal(t, "Desconocido", fields["LastName"])
	assert.NotContains(t, fields, "FirstName")
}

func TestExportLead_EscapesSOQL(t *testing.T) {
	client := newFakeClient()
	exp := NewLeadExporter(client)

	p := sampleProfile()
	p.CompanyName = "Mariscos D'Mar"
	require.NoError(t, exp.ExportLead(context.Background(), p))

	require.Len(t, client.queries, 1)
	assert.Contains(t, client.queries[0], `Mariscos D\'Mar`)
}

func TestExportLead_LookupFailure(t *testing.T) {
	client := newFakeClient()
	client.queryErr = eris.New("INVALID_SESSION_ID")
	exp := NewLeadExporter(client)

	err := exp.ExportLead(context.Background(), sampleProfile())
	require.Error(t, err)
	assert.Empty(t, client.inserted)
}

func TestRating(t *testing.T) {
	assert.Equal(t, "Hot", rating(70))
	assert.Equal(t, "Warm", rating(40))
	assert.Equal(t, "Cold", rating(39))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Juan Carlos Hernández")
	assert.Equal(t, "Juan Carlos", first)
	assert.Equal(t, "Hernández", last)

	first, last = splitName("Carmen Aguilar")
	assert.Equal(t, "Carmen", first)
	assert.Equal(t, "Aguilar", last)

	first, last = splitName("")
	assert.Empty(t, first)
	assert.Equal(t, "Desconocido", last)
}
