package chargen

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"chargen-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testBericht() *Bericht {
	mhd := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	return &Bericht{
		ID:         "0b44a6d8-6f3e-4f20-9c55-1a2b3c4d5e6f",
		Titel:      "Chargenbericht",
		ErstelltAm: time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
		Chargen: []models.Charge{
			{
				ID: 1, Chargennummer: "RM-2026-001",
				Artikel:          models.Artikel{Bezeichnung: "Weizenmehl Type 550"},
				Menge:            100.5, Einheit: "kg",
				Qualitaetsstatus: models.QualitaetFreigegeben,
				Mindesthaltbarkeit: &mhd,
				Eingangsdatum:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				ID: 2, Chargennummer: "RM-2026-002",
				Artikel:          models.Artikel{Bezeichnung: "Mineralfutter; Rind"},
				Menge:            50, Einheit: "kg",
				Qualitaetsstatus: models.QualitaetGesperrt,
				Eingangsdatum:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestExportCSV(t *testing.T) {
	data, contentType, err := Export(testBericht(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, contentType)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Chargennummer", "Artikel", "Menge", "Einheit", "Status", "MHD"}, rows[0])
	assert.Equal(t, []string{"RM-2026-001", "Weizenmehl Type 550", "100.5", "kg", "freigegeben", "2026-06-30"}, rows[1])
	// Semikolon im Freitext übersteht den Roundtrip dank Quoting
	assert.Equal(t, "Mineralfutter; Rind", rows[2][1])
	assert.Equal(t, "", rows[2][5])
}

func TestExportCSVIdempotent(t *testing.T) {
	b := testBericht()
	erste, _, err := Export(b, FormatCSV)
	require.NoError(t, err)
	zweite, _, err := Export(b, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, erste, zweite)
}

func TestExportPDFIdempotent(t *testing.T) {
	b := testBericht()
	erste, contentType, err := Export(b, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, ContentTypePDF, contentType)
	assert.True(t, bytes.HasPrefix(erste, []byte("%PDF")))

	// das Erstellungsdatum kommt aus dem Bericht, nicht von der Wanduhr
	zweite, _, err := Export(b, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, erste, zweite)
}

func TestExportExcel(t *testing.T) {
	b := testBericht()
	b.Grafiken = berechneGrafiken(b.Chargen, b.ErstelltAm)
	b.Qualitaet = map[uint][]models.Qualitaetstest{
		1: {{ID: 1, ChargeID: 1, Parameter: "Feuchtigkeit", Wert: 12.5, Einheit: "%", Bestanden: true,
			Pruefdatum: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}},
		2: {},
	}

	data, contentType, err := Export(b, FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeExcel, contentType)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Übersicht", "Qualität", "Grafiken"}, f.GetSheetList())

	wert, err := f.GetCellValue("Übersicht", "A6")
	require.NoError(t, err)
	assert.Equal(t, "RM-2026-001", wert)

	parameter, err := f.GetCellValue("Qualität", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Feuchtigkeit", parameter)
}

func TestExportUnbekanntesFormat(t *testing.T) {
	data, contentType, err := Export(testBericht(), "docx")
	assert.ErrorIs(t, err, ErrFormatNichtUnterstuetzt)
	assert.Nil(t, data)
	assert.Empty(t, contentType)
}

func TestDateiname(t *testing.T) {
	b := testBericht()
	assert.Equal(t, "Chargenbericht_2026-03-15.csv", Dateiname(b, FormatCSV))
	assert.Equal(t, "Chargenbericht_2026-03-15.xlsx", Dateiname(b, FormatExcel))
	assert.Equal(t, "Chargenbericht_2026-03-15.pdf", Dateiname(b, FormatPDF))
}
