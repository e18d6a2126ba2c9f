package intake

import (
	"fmt"
	"log"
	"strings"
	"time"

	"chargen-backend/internal/audit"
	"chargen-backend/internal/auth"
	"chargen-backend/internal/database"
	"chargen-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// matchArtikel: ordnet eine Position dem Artikelstamm zu. Erst exakt über die
// Artikelnummer, dann unscharf über die Bezeichnung.
func matchArtikel(artikelnummer, bezeichnung string) (*models.Artikel, error) {
	artikelnummer = strings.TrimSpace(artikelnummer)
	bezeichnung = strings.TrimSpace(bezeichnung)

	if artikelnummer != "" {
		var artikel models.Artikel
		if err := database.DB.Where("artikelnummer = ?", artikelnummer).First(&artikel).Error; err == nil {
			return &artikel, nil
		}
	}

	if bezeichnung == "" {
		return nil, nil
	}

	var alle []models.Artikel
	if err := database.DB.Find(&alle).Error; err != nil {
		return nil, err
	}

	normalize := func(s string) string {
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "ä", "a")
		s = strings.ReplaceAll(s, "ö", "o")
		s = strings.ReplaceAll(s, "ü", "u")
		s = strings.ReplaceAll(s, "ß", "ss")
		return s
	}
	gesucht := normalize(bezeichnung)

	for _, a := range alle {
		if normalize(a.Bezeichnung) == gesucht {
			return &a, nil
		}
	}

	// Teilstring-Treffer, der längste gewinnt
	var bester *models.Artikel
	bestScore := 0
	for i, a := range alle {
		name := normalize(a.Bezeichnung)
		if strings.Contains(gesucht, name) || strings.Contains(name, gesucht) {
			if len(name) > bestScore {
				bestScore = len(name)
				bester = &alle[i]
			}
		}
	}
	if bestScore >= 5 {
		return bester, nil
	}

	return nil, nil
}

// POST /api/lieferscheine/parse
// Analysiert den vom Frontend extrahierten Text eines Lieferschein-PDFs
// und schlägt Chargen samt Artikelzuordnung vor. Es wird noch nichts gebucht.
func ParseLieferscheinPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body, Feld 'text' erwartet")
		}
		if body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Lieferschein-Text darf nicht leer sein")
		}

		log.Printf("Lieferschein-Parsing gestartet, Textlänge: %d", len(body.Text))
		ergebnis, err := ParseLieferschein(body.Text)
		if err != nil {
			log.Printf("Lieferschein-Parsing fehlgeschlagen: %v", err)
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Lieferschein konnte nicht gelesen werden: %v", err))
		}

		for i := range ergebnis.Positionen {
			p := &ergebnis.Positionen[i]
			artikel, err := matchArtikel(p.Artikelnummer, p.Bezeichnung)
			if err == nil && artikel != nil {
				p.ArtikelID = &artikel.ID
				p.ArtikelBezeichnung = artikel.Bezeichnung
			}
		}

		log.Printf("Lieferschein-Parsing erfolgreich, %d Positionen", len(ergebnis.Positionen))
		return c.JSON(ergebnis)
	}
}

// ImportErgebnis: Zusammenfassung eines Excel-Imports
type ImportErgebnis struct {
	Importiert    int      `json:"importiert"`
	Uebersprungen int      `json:"uebersprungen"`
	Fehler        []string `json:"fehler"`
}

// POST /api/chargen/import-excel
// Massenimport von Chargen aus einer XLSX-Datei. Spalten:
// Chargennummer, Artikelnummer, Menge, Einheit, MHD (TT.MM.JJJJ), Lagerort.
// Bereits vorhandene Chargennummern werden übersprungen, nicht überschrieben.
func ImportChargenExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datei konnte nicht hochgeladen werden: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Nur .xlsx-Dateien werden unterstützt")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Datei konnte nicht geöffnet werden: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel-Datei konnte nicht gelesen werden: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel-Datei enthält kein Sheet")
		}
		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet konnte nicht gelesen werden: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel-Datei ist leer")
		}

		// Kopfzeile erkennen und überspringen
		start := 0
		if len(rows[0]) > 0 {
			erste := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(erste, "CHARGE") {
				start = 1
			}
		}

		zelle := func(row []string, idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		ergebnis := ImportErgebnis{Fehler: []string{}}
		for i := start; i < len(rows); i++ {
			zeile := i + 1
			chargennummer := zelle(rows[i], 0)
			artikelnummer := zelle(rows[i], 1)
			mengeStr := zelle(rows[i], 2)
			einheit := zelle(rows[i], 3)
			mhdStr := zelle(rows[i], 4)
			lagerort := zelle(rows[i], 5)

			if chargennummer == "" {
				continue
			}

			var vorhanden int64
			database.DB.Model(&models.Charge{}).
				Where("chargennummer = ?", chargennummer).Count(&vorhanden)
			if vorhanden > 0 {
				ergebnis.Uebersprungen++
				continue
			}

			var artikel models.Artikel
			if err := database.DB.Where("artikelnummer = ?", artikelnummer).First(&artikel).Error; err != nil {
				ergebnis.Fehler = append(ergebnis.Fehler,
					fmt.Sprintf("Zeile %d: Artikel %q nicht gefunden", zeile, artikelnummer))
				continue
			}

			menge, err := parseGermanFloat(mengeStr)
			if err != nil || menge <= 0 {
				ergebnis.Fehler = append(ergebnis.Fehler,
					fmt.Sprintf("Zeile %d: Menge %q ungültig", zeile, mengeStr))
				continue
			}
			if einheit == "" {
				einheit = artikel.Einheit
			}

			charge := models.Charge{
				Chargennummer:    chargennummer,
				ArtikelID:        artikel.ID,
				Menge:            menge,
				Einheit:          einheit,
				Eingangsdatum:    time.Now(),
				Lagerort:         lagerort,
				Qualitaetsstatus: models.QualitaetInPruefung,
			}
			if iso := parseDeutschesDatum(mhdStr); iso != "" {
				t, _ := time.Parse("2006-01-02", iso)
				charge.Mindesthaltbarkeit = &t
			}

			if err := database.DB.Create(&charge).Error; err != nil {
				ergebnis.Fehler = append(ergebnis.Fehler,
					fmt.Sprintf("Zeile %d: Charge konnte nicht angelegt werden", zeile))
				continue
			}
			ergebnis.Importiert++
		}

		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			var user models.User
			userName := ""
			if err := database.DB.First(&user, userID).Error; err == nil {
				userName = user.Name
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "charge",
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Excel-Import: %d Chargen angelegt, %d übersprungen", ergebnis.Importiert, ergebnis.Uebersprungen),
			})
		}

		log.Printf("Excel-Import abgeschlossen: %d angelegt, %d übersprungen, %d Fehler",
			ergebnis.Importiert, ergebnis.Uebersprungen, len(ergebnis.Fehler))
		return c.JSON(ergebnis)
	}
}
