package chargen

import (
	"chargen-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// zelle: Zellkoordinate aus Spalte/Zeile (1-basiert)
func zelle(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// exportExcel: Arbeitsmappe mit Übersichts-Sheet plus einem Sheet je
// berechnetem Abschnitt
func exportExcel(b *Bericht) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const uebersicht = "Übersicht"
	if err := f.SetSheetName("Sheet1", uebersicht); err != nil {
		return nil, err
	}

	f.SetCellValue(uebersicht, "A1", b.Titel)
	f.SetCellValue(uebersicht, "A2", "Erstellt am")
	f.SetCellValue(uebersicht, "B2", b.ErstelltAm.Format("2006-01-02 15:04:05"))
	f.SetCellValue(uebersicht, "A3", "Anzahl Chargen")
	f.SetCellValue(uebersicht, "B3", len(b.Chargen))

	kopf := []string{"Chargennummer", "Artikel", "Menge", "Einheit", "Status", "MHD", "Lagerort", "Eingangsdatum"}
	for i, h := range kopf {
		f.SetCellValue(uebersicht, zelle(i+1, 5), h)
	}
	for i, ch := range b.Chargen {
		row := 6 + i
		f.SetCellValue(uebersicht, zelle(1, row), ch.Chargennummer)
		f.SetCellValue(uebersicht, zelle(2, row), ch.Artikel.Bezeichnung)
		f.SetCellValue(uebersicht, zelle(3, row), ch.Menge)
		f.SetCellValue(uebersicht, zelle(4, row), ch.Einheit)
		f.SetCellValue(uebersicht, zelle(5, row), string(ch.Qualitaetsstatus))
		f.SetCellValue(uebersicht, zelle(6, row), formatDatum(ch.Mindesthaltbarkeit))
		f.SetCellValue(uebersicht, zelle(7, row), ch.Lagerort)
		f.SetCellValue(uebersicht, zelle(8, row), ch.Eingangsdatum.Format("2006-01-02"))
	}

	if b.Qualitaet != nil {
		if err := schreibeQualitaetsSheet(f, b); err != nil {
			return nil, err
		}
	}
	if b.Dokumente != nil {
		if err := schreibeDokumenteSheet(f, b); err != nil {
			return nil, err
		}
	}
	if b.Vorwaerts != nil || b.Rueckwaerts != nil {
		if err := schreibeVerfolgungsSheet(f, b); err != nil {
			return nil, err
		}
	}
	if b.Rueckruf != nil {
		if err := schreibeRueckrufSheet(f, b); err != nil {
			return nil, err
		}
	}
	if b.Grafiken != nil {
		if err := schreibeGrafikenSheet(f, b); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func schreibeQualitaetsSheet(f *excelize.File, b *Bericht) error {
	const sheet = "Qualität"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	kopf := []string{"Chargennummer", "Parameter", "Wert", "Einheit", "Min", "Max", "Bestanden", "Prüfdatum", "Prüfer"}
	for i, h := range kopf {
		f.SetCellValue(sheet, zelle(i+1, 1), h)
	}

	row := 2
	// in Chargenreihenfolge, nicht in Map-Reihenfolge
	for _, ch := range b.Chargen {
		for _, t := range b.Qualitaet[ch.ID] {
			f.SetCellValue(sheet, zelle(1, row), ch.Chargennummer)
			f.SetCellValue(sheet, zelle(2, row), t.Parameter)
			f.SetCellValue(sheet, zelle(3, row), t.Wert)
			f.SetCellValue(sheet, zelle(4, row), t.Einheit)
			if t.MinWert != nil {
				f.SetCellValue(sheet, zelle(5, row), *t.MinWert)
			}
			if t.MaxWert != nil {
				f.SetCellValue(sheet, zelle(6, row), *t.MaxWert)
			}
			bestanden := "nein"
			if t.Bestanden {
				bestanden = "ja"
			}
			f.SetCellValue(sheet, zelle(7, row), bestanden)
			f.SetCellValue(sheet, zelle(8, row), t.Pruefdatum.Format("2006-01-02"))
			f.SetCellValue(sheet, zelle(9, row), t.Pruefer)
			row++
		}
	}
	return nil
}

func schreibeDokumenteSheet(f *excelize.File, b *Bericht) error {
	const sheet = "Dokumente"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	kopf := []string{"Chargennummer", "Typ", "Dateiname", "Datum"}
	for i, h := range kopf {
		f.SetCellValue(sheet, zelle(i+1, 1), h)
	}

	row := 2
	for _, ch := range b.Chargen {
		for _, d := range b.Dokumente[ch.ID] {
			f.SetCellValue(sheet, zelle(1, row), ch.Chargennummer)
			f.SetCellValue(sheet, zelle(2, row), string(d.Typ))
			f.SetCellValue(sheet, zelle(3, row), d.Dateiname)
			f.SetCellValue(sheet, zelle(4, row), d.Datum.Format("2006-01-02"))
			row++
		}
	}
	return nil
}

func schreibeVerfolgungsSheet(f *excelize.File, b *Bericht) error {
	const sheet = "Verfolgung"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	kopf := []string{"Start-Charge", "Richtung", "Tiefe", "Charge", "Menge", "Einheit"}
	for i, h := range kopf {
		f.SetCellValue(sheet, zelle(i+1, 1), h)
	}

	row := 2
	schreibe := func(start string, richtung Richtung, v *Verfolgung) {
		walkKnoten(v.Wurzel, func(k *VerfolgungsKnoten) {
			if k.Tiefe == 0 {
				return // die Wurzel ist die Startcharge selbst
			}
			f.SetCellValue(sheet, zelle(1, row), start)
			f.SetCellValue(sheet, zelle(2, row), string(richtung))
			f.SetCellValue(sheet, zelle(3, row), k.Tiefe)
			f.SetCellValue(sheet, zelle(4, row), k.Chargennummer)
			f.SetCellValue(sheet, zelle(5, row), k.Menge)
			f.SetCellValue(sheet, zelle(6, row), k.Einheit)
			row++
		})
	}

	for _, ch := range b.Chargen {
		if b.Vorwaerts != nil {
			if v, ok := b.Vorwaerts[ch.ID]; ok {
				schreibe(ch.Chargennummer, RichtungVorwaerts, v)
			}
		}
		if b.Rueckwaerts != nil {
			if v, ok := b.Rueckwaerts[ch.ID]; ok {
				schreibe(ch.Chargennummer, RichtungRueckwaerts, v)
			}
		}
	}
	return nil
}

func schreibeRueckrufSheet(f *excelize.File, b *Bericht) error {
	const sheet = "Rückruf"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	nummern := make(map[uint]string, len(b.Rueckruf.BetroffeneChargen))
	for _, ch := range b.Rueckruf.BetroffeneChargen {
		nummern[ch.ID] = ch.Chargennummer
	}

	f.SetCellValue(sheet, "A1", "Betroffene Chargen")
	f.SetCellValue(sheet, "B1", len(b.Rueckruf.BetroffeneChargen))
	f.SetCellValue(sheet, "A2", "Betroffene Kunden")
	f.SetCellValue(sheet, "B2", len(b.Rueckruf.BetroffeneKunden))

	kopf := []string{"Kunde", "Kundennummer", "Ansprechpartner", "Telefon", "E-Mail", "Betroffene Chargen"}
	for i, h := range kopf {
		f.SetCellValue(sheet, zelle(i+1, 4), h)
	}

	for i, k := range b.Rueckruf.BetroffeneKunden {
		row := 5 + i
		f.SetCellValue(sheet, zelle(1, row), k.Kunde.Name)
		f.SetCellValue(sheet, zelle(2, row), k.Kunde.Kundennummer)
		f.SetCellValue(sheet, zelle(3, row), k.Kunde.Ansprechpartner)
		f.SetCellValue(sheet, zelle(4, row), k.Kunde.Telefon)
		f.SetCellValue(sheet, zelle(5, row), k.Kunde.Email)

		liste := ""
		for j, id := range k.ChargenIDs {
			if j > 0 {
				liste += ", "
			}
			liste += nummern[id]
		}
		f.SetCellValue(sheet, zelle(6, row), liste)
	}
	return nil
}

func schreibeGrafikenSheet(f *excelize.File, b *Bericht) error {
	const sheet = "Grafiken"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Statusverteilung")
	row := 2
	for _, s := range statusReihenfolge {
		f.SetCellValue(sheet, zelle(1, row), s.Label)
		f.SetCellValue(sheet, zelle(2, row), b.Grafiken.StatusVerteilung[models.Qualitaetsstatus(s.Status)])
		row++
	}

	row++
	f.SetCellValue(sheet, zelle(1, row), "MHD-Restlaufzeiten")
	row++
	for _, bucket := range b.Grafiken.MhdBuckets {
		f.SetCellValue(sheet, zelle(1, row), bucket.Label)
		f.SetCellValue(sheet, zelle(2, row), bucket.Anzahl)
		row++
	}
	return nil
}

// walkKnoten: Tiefensuche über den Verfolgungsbaum in stabiler Reihenfolge
func walkKnoten(k *VerfolgungsKnoten, fn func(*VerfolgungsKnoten)) {
	if k == nil {
		return
	}
	fn(k)
	for _, kind := range k.Kinder {
		walkKnoten(kind, fn)
	}
}
