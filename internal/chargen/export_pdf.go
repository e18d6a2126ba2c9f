package chargen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"chargen-backend/internal/models"

	"github.com/go-pdf/fpdf"
)

// exportPDF: rendert den Bericht als A4-Dokument. Das Erstellungsdatum des
// PDFs wird auf den Berichtszeitpunkt gesetzt, damit identische Berichte
// byte-identische Dateien ergeben.
func exportPDF(b *Bericht) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(b.ErstelltAm)
	// Kernfonts sind cp1252, Umlaute müssen übersetzt werden
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(b.Titel))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Erstellt am: %s", b.ErstelltAm.Format("2006-01-02 15:04:05"))))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Anzahl Chargen: %d", len(b.Chargen))))
	pdf.Ln(10)

	schreibeChargenTabelle(pdf, tr, b)

	if b.Qualitaet != nil {
		schreibeQualitaetsAbschnitt(pdf, tr, b)
	}
	if b.Dokumente != nil {
		schreibeDokumenteAbschnitt(pdf, tr, b)
	}
	if b.Vorwaerts != nil || b.Rueckwaerts != nil {
		schreibeVerfolgungsAbschnitt(pdf, tr, b)
	}
	if b.Rueckruf != nil {
		schreibeRueckrufAbschnitt(pdf, tr, b)
	}
	if b.Grafiken != nil {
		schreibeGrafikenAbschnitt(pdf, tr, b)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func abschnittsTitel(pdf *fpdf.Fpdf, tr func(string) string, titel string) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(titel))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
}

func tabellenKopf(pdf *fpdf.Fpdf, tr func(string) string, breiten []float64, spalten []string) {
	pdf.SetFont("Helvetica", "B", 9)
	for i, s := range spalten {
		pdf.CellFormat(breiten[i], 6, tr(s), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func schreibeChargenTabelle(pdf *fpdf.Fpdf, tr func(string) string, b *Bericht) {
	breiten := []float64{32, 55, 20, 16, 26, 22, 19}
	tabellenKopf(pdf, tr, breiten, []string{"Chargennummer", "Artikel", "Menge", "Einheit", "Status", "MHD", "Eingang"})

	for _, ch := range b.Chargen {
		pdf.CellFormat(breiten[0], 6, tr(ch.Chargennummer), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[1], 6, tr(kuerze(ch.Artikel.Bezeichnung, 34)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[2], 6, strconv.FormatFloat(ch.Menge, 'f', -1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(breiten[3], 6, tr(ch.Einheit), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[4], 6, string(ch.Qualitaetsstatus), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[5], 6, formatDatum(ch.Mindesthaltbarkeit), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[6], 6, ch.Eingangsdatum.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

func schreibeQualitaetsAbschnitt(pdf *fpdf.Fpdf, tr func(string) string, b *Bericht) {
	abschnittsTitel(pdf, tr, "Qualitätsdaten")

	breiten := []float64{32, 40, 20, 16, 20, 24, 38}
	tabellenKopf(pdf, tr, breiten, []string{"Chargennummer", "Parameter", "Wert", "Einheit", "Bestanden", "Prüfdatum", "Prüfer"})

	for _, ch := range b.Chargen {
		for _, t := range b.Qualitaet[ch.ID] {
			bestanden := "nein"
			if t.Bestanden {
				bestanden = "ja"
			}
			pdf.CellFormat(breiten[0], 6, tr(ch.Chargennummer), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[1], 6, tr(kuerze(t.Parameter, 24)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[2], 6, strconv.FormatFloat(t.Wert, 'f', -1, 64), "1", 0, "R", false, 0, "")
			pdf.CellFormat(breiten[3], 6, tr(t.Einheit), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[4], 6, bestanden, "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[5], 6, t.Pruefdatum.Format("2006-01-02"), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[6], 6, tr(kuerze(t.Pruefer, 24)), "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}
}

func schreibeDokumenteAbschnitt(pdf *fpdf.Fpdf, tr func(string) string, b *Bericht) {
	abschnittsTitel(pdf, tr, "Dokumente")

	breiten := []float64{32, 36, 90, 32}
	tabellenKopf(pdf, tr, breiten, []string{"Chargennummer", "Typ", "Dateiname", "Datum"})

	for _, ch := range b.Chargen {
		for _, d := range b.Dokumente[ch.ID] {
			pdf.CellFormat(breiten[0], 6, tr(ch.Chargennummer), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[1], 6, string(d.Typ), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[2], 6, tr(kuerze(d.Dateiname, 54)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(breiten[3], 6, d.Datum.Format("2006-01-02"), "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}
}

func schreibeVerfolgungsAbschnitt(pdf *fpdf.Fpdf, tr func(string) string, b *Bericht) {
	abschnittsTitel(pdf, tr, "Chargenverfolgung")

	schreibe := func(richtung string, v *Verfolgung) {
		walkKnoten(v.Wurzel, func(k *VerfolgungsKnoten) {
			if k.Tiefe == 0 {
				return
			}
			einzug := strings.Repeat("    ", k.Tiefe-1)
			zeile := fmt.Sprintf("%s%s Tiefe %d: %s (%s %s)",
				einzug, richtung, k.Tiefe, k.Chargennummer,
				strconv.FormatFloat(k.Menge, 'f', -1, 64), k.Einheit)
			pdf.Cell(0, 5, tr(zeile))
			pdf.Ln(5)
		})
	}

	for _, ch := range b.Chargen {
		hatEintraege := false
		if b.Vorwaerts != nil {
			if v, ok := b.Vorwaerts[ch.ID]; ok && len(v.Wurzel.Kinder) > 0 {
				hatEintraege = true
			}
		}
		if b.Rueckwaerts != nil {
			if v, ok := b.Rueckwaerts[ch.ID]; ok && len(v.Wurzel.Kinder) > 0 {
				hatEintraege = true
			}
		}
		if !hatEintraege {
			continue
		}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.Cell(0, 6, tr("Charge "+ch.Chargennummer))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)

		if b.Vorwaerts != nil {
			if v, ok := b.Vorwaerts[ch.ID]; ok {
				schreibe("vorwärts", v)
			}
		}
		if b.Rueckwaerts != nil {
			if v, ok := b.Rueckwaerts[ch.ID]; ok {
				schreibe("rückwärts", v)
			}
		}
	}
}

func schreibeRueckrufAbschnitt(pdf *fpdf.Fpdf, tr func(string) string, b *Bericht) {
	abschnittsTitel(pdf, tr, "Rückrufinformationen")

	pdf.Cell(0, 6, tr(fmt.Sprintf("Betroffene Chargen: %d, betroffene Kunden: %d",
		len(b.Rueckruf.BetroffeneChargen), len(b.Rueckruf.BetroffeneKunden))))
	pdf.Ln(8)

	nummern := make(map[uint]string, len(b.Rueckruf.BetroffeneChargen))
	for _, ch := range b.Rueckruf.BetroffeneChargen {
		nummern[ch.ID] = ch.Chargennummer
	}

	breiten := []float64{50, 40, 40, 60}
	tabellenKopf(pdf, tr, breiten, []string{"Kunde", "Telefon", "E-Mail", "Betroffene Chargen"})

	for _, k := range b.Rueckruf.BetroffeneKunden {
		liste := make([]string, 0, len(k.ChargenIDs))
		for _, id := range k.ChargenIDs {
			liste = append(liste, nummern[id])
		}
		pdf.CellFormat(breiten[0], 6, tr(kuerze(k.Kunde.Name, 30)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[1], 6, tr(k.Kunde.Telefon), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[2], 6, tr(kuerze(k.Kunde.Email, 24)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(breiten[3], 6, tr(kuerze(strings.Join(liste, ", "), 36)), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

func schreibeGrafikenAbschnitt(pdf *fpdf.Fpdf, tr func(string) string, b *Bericht) {
	abschnittsTitel(pdf, tr, "Auswertungen")

	pdf.Cell(0, 6, tr("Statusverteilung"))
	pdf.Ln(6)
	for _, s := range statusReihenfolge {
		pdf.Cell(0, 5, tr(fmt.Sprintf("  %s: %d", s.Label, b.Grafiken.StatusVerteilung[models.Qualitaetsstatus(s.Status)])))
		pdf.Ln(5)
	}

	pdf.Ln(3)
	pdf.Cell(0, 6, tr("MHD-Restlaufzeiten"))
	pdf.Ln(6)
	for _, bucket := range b.Grafiken.MhdBuckets {
		pdf.Cell(0, 5, tr(fmt.Sprintf("  %s: %d", bucket.Label, bucket.Anzahl)))
		pdf.Ln(5)
	}
}

// kuerze: schneidet Freitext für feste Tabellenspalten ab
func kuerze(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
