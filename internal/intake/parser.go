package intake

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsierteCharge: eine Position aus dem Lieferschein-Text
type ParsierteCharge struct {
	Chargennummer      string  `json:"chargennummer"`
	Artikelnummer      string  `json:"artikelnummer"`
	Bezeichnung        string  `json:"bezeichnung"`
	Menge              float64 `json:"menge"`
	Einheit            string  `json:"einheit"`
	Mindesthaltbarkeit string  `json:"mindesthaltbarkeit"` // ISO-Datum, leer wenn nicht angegeben

	// Zuordnung zum Artikelstamm, nil wenn kein Treffer
	ArtikelID          *uint  `json:"artikel_id"`
	ArtikelBezeichnung string `json:"artikel_bezeichnung"`
}

// ParseErgebnis: Ergebnis der Lieferschein-Analyse
type ParseErgebnis struct {
	Positionen         []ParsierteCharge `json:"positionen"`
	Lieferscheinnummer string            `json:"lieferscheinnummer"`
	Lieferdatum        string            `json:"lieferdatum"` // ISO-Datum, leer wenn nicht gefunden
}

// parseGermanFloat: deutsches Zahlenformat nach float (1.234,56 -> 1234.56)
func parseGermanFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "kg")
	s = strings.TrimSpace(s)

	// Tausenderpunkte raus, Dezimalkomma zu Punkt
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	return strconv.ParseFloat(s, 64)
}

// parseDeutschesDatum: "15.03.2026" -> "2026-03-15", leer bei Fehlschlag
func parseDeutschesDatum(s string) string {
	t, err := time.Parse("02.01.2006", strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

var (
	lieferscheinNrRe = regexp.MustCompile(`Lieferschein-?\s*Nr\.?:?\s*([A-Za-z0-9\-/]+)`)
	lieferdatumRe    = regexp.MustCompile(`Lieferdatum:?\s*(\d{2}\.\d{2}\.\d{4})`)
)

// parseTabelle: extrahiert die Positionszeilen aus dem Text.
// Erwartetes Format sind Pipe-getrennte Spalten:
// | Chargennummer | Artikelnummer | Bezeichnung | Menge | Einheit | MHD |
func parseTabelle(text string) ([]ParsierteCharge, error) {
	lines := strings.Split(text, "\n")

	tableStartIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "Chargennummer") && strings.Contains(line, "Artikel") {
			tableStartIdx = i
			break
		}
	}
	if tableStartIdx == -1 {
		return nil, fmt.Errorf("tabellenkopf nicht gefunden")
	}

	var positionen []ParsierteCharge
	for i := tableStartIdx + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		// Leer-, Trenn- und Summenzeilen überspringen
		if line == "" || strings.Trim(line, "|- ") == "" || strings.Contains(line, "Gesamt:") {
			continue
		}
		if !strings.Contains(line, "|") {
			// Zeilen ohne Pipes sind meist umgebrochene Bezeichnungen
			if len(positionen) > 0 {
				letzte := &positionen[len(positionen)-1]
				letzte.Bezeichnung += " " + line
			}
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 7 {
			continue
		}

		chargennummer := strings.TrimSpace(parts[1])
		artikelnummer := strings.TrimSpace(parts[2])
		bezeichnung := strings.TrimSpace(parts[3])
		mengeStr := strings.TrimSpace(parts[4])
		einheit := strings.TrimSpace(parts[5])
		mhdStr := strings.TrimSpace(parts[6])

		if chargennummer == "" && bezeichnung == "" {
			continue
		}
		// fehlende Chargennummer: Fortsetzung der vorigen Bezeichnung
		if chargennummer == "" {
			if len(positionen) > 0 && bezeichnung != "" {
				positionen[len(positionen)-1].Bezeichnung += " " + bezeichnung
			}
			continue
		}

		menge, err := parseGermanFloat(mengeStr)
		if err != nil {
			continue
		}

		positionen = append(positionen, ParsierteCharge{
			Chargennummer:      chargennummer,
			Artikelnummer:      artikelnummer,
			Bezeichnung:        bezeichnung,
			Menge:              menge,
			Einheit:            einheit,
			Mindesthaltbarkeit: parseDeutschesDatum(mhdStr),
		})
	}

	return positionen, nil
}

// ParseLieferschein: analysiert den vorab extrahierten Text eines
// Lieferschein-PDFs. Die Textextraktion selbst macht das Frontend,
// hier kommt nur noch der reine Text an.
func ParseLieferschein(text string) (*ParseErgebnis, error) {
	ergebnis := &ParseErgebnis{}

	if m := lieferscheinNrRe.FindStringSubmatch(text); len(m) > 1 {
		ergebnis.Lieferscheinnummer = m[1]
	}
	if m := lieferdatumRe.FindStringSubmatch(text); len(m) > 1 {
		ergebnis.Lieferdatum = parseDeutschesDatum(m[1])
	}

	positionen, err := parseTabelle(text)
	if err != nil {
		return nil, fmt.Errorf("lieferschein konnte nicht gelesen werden: %w", err)
	}
	ergebnis.Positionen = positionen

	return ergebnis, nil
}
