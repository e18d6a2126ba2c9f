package dashboard

import (
	"fmt"
	"sort"
	"time"

	"chargen-backend/internal/database"
	"chargen-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EingangsPunkt struct {
	Label  string `json:"label"` // Tag des Wareneingangs
	Anzahl int    `json:"anzahl"`
}

type ChargenStatsResponse struct {
	GesamtChargen    int64          `json:"gesamt_chargen"`
	StatusVerteilung map[string]int `json:"status_verteilung"`
	MhdAbgelaufen    int64          `json:"mhd_abgelaufen"`
	MhdUnter30Tagen  int64          `json:"mhd_unter_30_tagen"`
	OffenePruefungen int64          `json:"offene_pruefungen"`
	Eingaenge        []EingangsPunkt `json:"eingaenge"`
	From             string          `json:"from"`
	To               string          `json:"to"`
}

// GET /api/dashboard/chargen-stats?count=30
// Kennzahlen für die Dashboard-Startseite: Statusverteilung, MHD-Warnungen
// und Wareneingänge pro Tag der letzten count Tage
func ChargenStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := 30
		if s := c.Query("count"); s != "" {
			if _, err := fmt.Sscan(s, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count ungültig")
			}
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		start := end.AddDate(0, 0, -(count - 1))

		resp := ChargenStatsResponse{
			StatusVerteilung: make(map[string]int),
			From:             start.Format("2006-01-02"),
			To:               end.Format("2006-01-02"),
		}

		if err := database.DB.Model(&models.Charge{}).Count(&resp.GesamtChargen).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kennzahlen konnten nicht ermittelt werden")
		}

		type statusRow struct {
			Status string `gorm:"column:status"`
			Anzahl int    `gorm:"column:anzahl"`
		}
		var statusRows []statusRow
		if err := database.DB.Raw(`
			SELECT qualitaetsstatus AS status, COUNT(*) AS anzahl
			FROM charges
			GROUP BY qualitaetsstatus;
		`).Scan(&statusRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kennzahlen konnten nicht ermittelt werden")
		}
		for _, r := range statusRows {
			resp.StatusVerteilung[r.Status] = r.Anzahl
		}
		resp.OffenePruefungen = int64(resp.StatusVerteilung[string(models.QualitaetInPruefung)])

		heute := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		if err := database.DB.Model(&models.Charge{}).
			Where("mindesthaltbarkeit IS NOT NULL AND mindesthaltbarkeit < ?", heute).
			Count(&resp.MhdAbgelaufen).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kennzahlen konnten nicht ermittelt werden")
		}
		if err := database.DB.Model(&models.Charge{}).
			Where("mindesthaltbarkeit >= ? AND mindesthaltbarkeit < ?", heute, heute.AddDate(0, 0, 30)).
			Count(&resp.MhdUnter30Tagen).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kennzahlen konnten nicht ermittelt werden")
		}

		type eingangsRow struct {
			Bucket time.Time `gorm:"column:bucket"`
			Anzahl int       `gorm:"column:anzahl"`
		}
		var eingangsRows []eingangsRow
		if err := database.DB.Raw(`
			SELECT eingangsdatum::date AS bucket,
				   COUNT(*) AS anzahl
			FROM charges
			WHERE eingangsdatum >= ? AND eingangsdatum < ?
			GROUP BY bucket
			ORDER BY bucket ASC;
		`, start, end.AddDate(0, 0, 1)).Scan(&eingangsRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kennzahlen konnten nicht ermittelt werden")
		}

		sort.Slice(eingangsRows, func(i, j int) bool {
			return eingangsRows[i].Bucket.Before(eingangsRows[j].Bucket)
		})
		resp.Eingaenge = make([]EingangsPunkt, 0, len(eingangsRows))
		for _, r := range eingangsRows {
			resp.Eingaenge = append(resp.Eingaenge, EingangsPunkt{
				Label:  r.Bucket.Format("2006-01-02"),
				Anzahl: r.Anzahl,
			})
		}

		return c.JSON(resp)
	}
}
