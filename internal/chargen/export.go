package chargen

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

const (
	ContentTypeCSV   = "text/csv"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
)

// Export: serialisiert einen fertigen Bericht in das gewünschte Format.
// Zustandslos; identischer Bericht + identisches Format ergeben identische
// Bytes (der einzige Zeitstempel ist der bereits im Bericht enthaltene).
func Export(b *Bericht, format string) ([]byte, string, error) {
	switch format {
	case FormatCSV:
		data, err := exportCSV(b)
		return data, ContentTypeCSV, err
	case FormatExcel:
		data, err := exportExcel(b)
		return data, ContentTypeExcel, err
	case FormatPDF:
		data, err := exportPDF(b)
		return data, ContentTypePDF, err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrFormatNichtUnterstuetzt, format)
	}
}

// Dateiname: Download-Name für den Export, z.B. "Chargenbericht_2026-09-01.csv"
func Dateiname(b *Bericht, format string) string {
	ext := format
	if format == FormatExcel {
		ext = "xlsx"
	}
	return fmt.Sprintf("%s_%s.%s", b.Titel, b.ErstelltAm.Format("2006-01-02"), ext)
}

// exportCSV: eine Zeile pro Charge, Semikolon-getrennt (deutsches
// Locale-Format), feste Spaltenreihenfolge. Freitextfelder werden vom
// csv-Writer RFC-4180-konform gequotet.
func exportCSV(b *Bericht) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	header := []string{"Chargennummer", "Artikel", "Menge", "Einheit", "Status", "MHD"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, ch := range b.Chargen {
		row := []string{
			ch.Chargennummer,
			ch.Artikel.Bezeichnung,
			strconv.FormatFloat(ch.Menge, 'f', -1, 64),
			ch.Einheit,
			string(ch.Qualitaetsstatus),
			formatDatum(ch.Mindesthaltbarkeit),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDatum(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// statusReihenfolge: feste Ausgabereihenfolge der Qualitätsstatus,
// damit Exporte nicht von der Map-Iteration abhängen
var statusReihenfolge = []struct {
	Status string
	Label  string
}{
	{"freigegeben", "Freigegeben"},
	{"gesperrt", "Gesperrt"},
	{"in_pruefung", "In Prüfung"},
}
