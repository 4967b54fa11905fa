package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospector/internal/model"
)

// columnAliases maps spreadsheet header names, as exported by the lead
// sources we ingest, onto CompanyInput fields.
var columnAliases = map[string]string{
	"name": "name", "company_name": "name", "company": "name",
	"empresa": "name", "nombre": "name",
	"phone": "phone", "phone_number": "phone", "telefono": "phone",
	"location": "location", "city": "location", "ciudad": "location", "ubicacion": "location",
	"industry": "industry", "sector": "industry", "giro": "industry", "industria": "industry",
	"website": "website", "url": "website", "sitio_web": "website", "sitio": "website",
}

// LoadInputs reads company records from a .json or .xlsx file.
func LoadInputs(path string) ([]model.CompanyInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, eris.Errorf("batch: unsupported input format %q (want .json or .xlsx)", filepath.Ext(path))
	}
}

func loadJSON(path string) ([]model.CompanyInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: read input file")
	}

	var inputs []model.CompanyInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, eris.Wrap(err, "batch: decode input file")
	}
	return inputs, nil
}

// loadXLSX reads the first sheet, treating the first row as a header. Header
// names go through columnAliases; unknown columns are ignored.
func loadXLSX(path string) ([]model.CompanyInput, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("batch: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return []model.CompanyInput{}, nil
	}

	fieldByCol := map[int]string{}
	for j, cell := range sheet.Rows[0].Cells {
		header := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := columnAliases[header]; ok {
			fieldByCol[j] = field
		}
	}
	if len(fieldByCol) == 0 {
		return nil, eris.New("batch: xlsx header row has no recognized columns")
	}

	var inputs []model.CompanyInput
	for _, row := range sheet.Rows[1:] {
		var in model.CompanyInput
		empty := true
		for j, cell := range row.Cells {
			field, ok := fieldByCol[j]
			if !ok {
				continue
			}
			value := strings.TrimSpace(cell.String())
			if value == "" {
				continue
			}
			empty = false
			switch field {
			case "name":
				in.Name = value
			case "phone":
				in.Phone = value
			case "location":
				in.Location = value
			case "industry":
				in.Industry = value
			case "website":
				in.Website = value
			}
		}
		if !empty {
			inputs = append(inputs, in)
		}
	}
	return inputs, nil
}
