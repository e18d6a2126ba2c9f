package chargen

import (
	"errors"
	"fmt"
	"time"

	"chargen-backend/internal/audit"
	"chargen-backend/internal/auth"
	"chargen-backend/internal/database"
	"chargen-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FilterRequest: Filter mit Datumsfeldern als "YYYY-MM-DD"-Strings,
// wie sie das Frontend schickt
type FilterRequest struct {
	ArtikelID        *uint  `json:"artikelId"`
	LieferantID      *uint  `json:"lieferantId"`
	Qualitaetsstatus string `json:"qualitaetsstatus"`
	Lagerort         string `json:"lagerort"`
	VonDatum         string `json:"vonDatum"`
	BisDatum         string `json:"bisDatum"`
}

func (r FilterRequest) ToFilter() (Filter, error) {
	f := Filter{
		ArtikelID:        r.ArtikelID,
		LieferantID:      r.LieferantID,
		Qualitaetsstatus: models.Qualitaetsstatus(r.Qualitaetsstatus),
		Lagerort:         r.Lagerort,
	}
	if r.Qualitaetsstatus != "" && !models.GueltigerQualitaetsstatus(f.Qualitaetsstatus) {
		return f, fiber.NewError(fiber.StatusBadRequest, "qualitaetsstatus ungültig")
	}
	if r.VonDatum != "" {
		t, err := time.Parse("2006-01-02", r.VonDatum)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "vonDatum ungültig, erwartet YYYY-MM-DD")
		}
		f.VonDatum = &t
	}
	if r.BisDatum != "" {
		t, err := time.Parse("2006-01-02", r.BisDatum)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "bisDatum ungültig, erwartet YYYY-MM-DD")
		}
		f.BisDatum = &t
	}
	return f, nil
}

// mapDomainErr: übersetzt die Fehlertaxonomie des Kerns in HTTP-Antworten
func mapDomainErr(err error) error {
	var asmErr *AssemblyError
	if errors.As(err, &asmErr) {
		inner := mapDomainErr(asmErr.Err)
		if fe, ok := inner.(*fiber.Error); ok {
			return fiber.NewError(fe.Code, fmt.Sprintf("Berichtsabschnitt %q: %s", asmErr.Abschnitt, fe.Message))
		}
		return inner
	}

	switch {
	case errors.Is(err, ErrChargeNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Charge nicht gefunden")
	case errors.Is(err, ErrZyklischeVerfolgung):
		return fiber.NewError(fiber.StatusConflict, "Zyklus in der Chargenverfolgung festgestellt, Datenbestand prüfen")
	case errors.Is(err, ErrRepositoryUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Chargen-Daten derzeit nicht erreichbar, bitte erneut versuchen")
	case errors.Is(err, ErrFormatNichtUnterstuetzt):
		return fiber.NewError(fiber.StatusBadRequest, "Exportformat nicht unterstützt")
	}
	return err
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id ungültig")
	}
	return id, nil
}

// auditUser: Benutzer für das Audit-Log aus dem Token-Kontext laden.
// Liefert ok=false, wenn der Benutzer nicht aufgelöst werden kann —
// die fachliche Aktion läuft dann trotzdem weiter.
func auditUser(c *fiber.Ctx) (uint, string, bool) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, "", false
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return userID, "", true
	}
	return userID, user.Name, true
}

// GET /api/chargen?artikel_id=&lieferant_id=&qualitaetsstatus=&lagerort=&von_datum=&bis_datum=
func ListChargenHandler(repo Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := FilterRequest{
			Qualitaetsstatus: c.Query("qualitaetsstatus"),
			Lagerort:         c.Query("lagerort"),
			VonDatum:         c.Query("von_datum"),
			BisDatum:         c.Query("bis_datum"),
		}
		if s := c.Query("artikel_id"); s != "" {
			var v uint
			if _, err := fmt.Sscan(s, &v); err != nil || v == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "artikel_id ungültig")
			}
			req.ArtikelID = &v
		}
		if s := c.Query("lieferant_id"); s != "" {
			var v uint
			if _, err := fmt.Sscan(s, &v); err != nil || v == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "lieferant_id ungültig")
			}
			req.LieferantID = &v
		}

		f, err := req.ToFilter()
		if err != nil {
			return err
		}

		chargen, err := repo.FindChargen(c.UserContext(), f)
		if err != nil {
			return mapDomainErr(err)
		}
		return c.JSON(chargen)
	}
}

// GET /api/chargen/:id
func GetChargeHandler(repo Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		charge, err := repo.GetCharge(c.UserContext(), id)
		if err != nil {
			return mapDomainErr(err)
		}
		return c.JSON(charge)
	}
}

type CreateChargeRequest struct {
	Chargennummer      string  `json:"chargennummer"`
	ArtikelID          uint    `json:"artikel_id"`
	LieferantID        *uint   `json:"lieferant_id"`
	Menge              float64 `json:"menge"`
	Einheit            string  `json:"einheit"`
	Herstelldatum      string  `json:"herstelldatum"`
	Mindesthaltbarkeit string  `json:"mindesthaltbarkeit"`
	Eingangsdatum      string  `json:"eingangsdatum"`
	Lagerort           string  `json:"lagerort"`
}

// POST /api/chargen
// Wareneingang bzw. Produktionsmeldung legt eine neue Charge an,
// Qualitätsstatus startet immer mit in_pruefung
func CreateChargeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateChargeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		if body.Chargennummer == "" || body.ArtikelID == 0 || body.Menge <= 0 || body.Einheit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "chargennummer, artikel_id, menge und einheit sind Pflichtfelder")
		}

		var artikel models.Artikel
		if err := database.DB.First(&artikel, body.ArtikelID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Artikel nicht gefunden")
		}
		if body.LieferantID != nil {
			var lieferant models.Lieferant
			if err := database.DB.First(&lieferant, *body.LieferantID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Lieferant nicht gefunden")
			}
		}

		charge := models.Charge{
			Chargennummer:    body.Chargennummer,
			ArtikelID:        body.ArtikelID,
			LieferantID:      body.LieferantID,
			Menge:            body.Menge,
			Einheit:          body.Einheit,
			Lagerort:         body.Lagerort,
			Eingangsdatum:    time.Now(),
			Qualitaetsstatus: models.QualitaetInPruefung,
		}

		if body.Eingangsdatum != "" {
			t, err := time.Parse("2006-01-02", body.Eingangsdatum)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "eingangsdatum ungültig, erwartet YYYY-MM-DD")
			}
			charge.Eingangsdatum = t
		}
		if body.Herstelldatum != "" {
			t, err := time.Parse("2006-01-02", body.Herstelldatum)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "herstelldatum ungültig, erwartet YYYY-MM-DD")
			}
			charge.Herstelldatum = &t
		}
		if body.Mindesthaltbarkeit != "" {
			t, err := time.Parse("2006-01-02", body.Mindesthaltbarkeit)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "mindesthaltbarkeit ungültig, erwartet YYYY-MM-DD")
			}
			charge.Mindesthaltbarkeit = &t
		}

		if err := database.DB.Create(&charge).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Charge konnte nicht angelegt werden")
		}

		if userID, userName, ok := auditUser(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "charge",
				EntityID:    charge.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Charge %s angelegt", charge.Chargennummer),
				After:       charge,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(charge)
	}
}

// PUT /api/chargen/:id/qualitaetsstatus
// Der einzige erlaubte Schreibzugriff auf eine bestehende Charge
func UpdateQualitaetsstatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body struct {
			Qualitaetsstatus models.Qualitaetsstatus `json:"qualitaetsstatus"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if !models.GueltigerQualitaetsstatus(body.Qualitaetsstatus) {
			return fiber.NewError(fiber.StatusBadRequest, "qualitaetsstatus ungültig")
		}

		var charge models.Charge
		if err := database.DB.First(&charge, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Charge nicht gefunden")
		}

		vorher := charge.Qualitaetsstatus
		if vorher == body.Qualitaetsstatus {
			return c.JSON(charge)
		}

		if err := database.DB.Model(&charge).
			Update("qualitaetsstatus", body.Qualitaetsstatus).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Status konnte nicht geändert werden")
		}

		if userID, userName, ok := auditUser(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "charge",
				EntityID:    charge.ID,
				Action:      models.AuditActionStatusWechsel,
				Description: fmt.Sprintf("Qualitätsstatus %s -> %s", vorher, body.Qualitaetsstatus),
				Before:      fiber.Map{"qualitaetsstatus": vorher},
				After:       fiber.Map{"qualitaetsstatus": body.Qualitaetsstatus},
			})
		}

		return c.JSON(charge)
	}
}

type CreateVerfolgungRequest struct {
	ErzeugerChargeID uint    `json:"erzeuger_charge_id"`
	Menge            float64 `json:"menge"`
	Einheit          string  `json:"einheit"`
	Prozess          string  `json:"prozess"`
}

// POST /api/chargen/:id/verfolgung
// Verbucht, dass die Charge :id aus der Erzeuger-Charge hergestellt wurde.
// Kanten, die einen Zyklus schließen würden, werden abgelehnt.
func CreateVerfolgungHandler(resolver *VerfolgungsResolver, repo Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		verbraucherID, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body CreateVerfolgungRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if body.ErzeugerChargeID == 0 || body.Menge <= 0 || body.Einheit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "erzeuger_charge_id, menge und einheit sind Pflichtfelder")
		}
		if body.ErzeugerChargeID == verbraucherID {
			return fiber.NewError(fiber.StatusConflict, "Eine Charge kann sich nicht selbst verbrauchen")
		}

		ctx := c.UserContext()

		if _, err := repo.GetCharge(ctx, verbraucherID); err != nil {
			return mapDomainErr(err)
		}
		if _, err := repo.GetCharge(ctx, body.ErzeugerChargeID); err != nil {
			return mapDomainErr(err)
		}

		// Zyklus-Vorabprüfung: fließt die Verbraucher-Charge bereits
		// (transitiv) in die Erzeuger-Charge, würde die neue Kante den
		// Graphen schließen
		vorwaerts, err := resolver.ResolveVorwaerts(ctx, verbraucherID)
		if err != nil {
			return mapDomainErr(err)
		}
		if _, ok := vorwaerts.Chargen[body.ErzeugerChargeID]; ok {
			return fiber.NewError(fiber.StatusConflict, "Kante würde einen Zyklus in der Chargenverfolgung erzeugen")
		}

		edge := models.ChargenVerfolgung{
			VerbraucherChargeID: verbraucherID,
			ErzeugerChargeID:    body.ErzeugerChargeID,
			Menge:               body.Menge,
			Einheit:             body.Einheit,
			Prozess:             body.Prozess,
		}
		if err := database.DB.Create(&edge).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Verfolgungskante konnte nicht angelegt werden")
		}

		if userID, userName, ok := auditUser(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "chargen_verfolgung",
				EntityID:    edge.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Verbrauchskante %d -> %d", body.ErzeugerChargeID, verbraucherID),
				After:       edge,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(edge)
	}
}

// GET /api/chargen/:id/vorwaerts
func VorwaertsHandler(resolver *VerfolgungsResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		v, err := resolver.ResolveVorwaerts(c.UserContext(), id)
		if err != nil {
			return mapDomainErr(err)
		}
		return c.JSON(v)
	}
}

// GET /api/chargen/:id/rueckwaerts
func RueckwaertsHandler(resolver *VerfolgungsResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		v, err := resolver.ResolveRueckwaerts(c.UserContext(), id)
		if err != nil {
			return mapDomainErr(err)
		}
		return c.JSON(v)
	}
}

type BerichtRequest struct {
	Filter   FilterRequest `json:"filter"`
	Optionen Optionen      `json:"optionen"`
}

// POST /api/chargen-berichte/generieren
func GenerateBerichtHandler(assembler *Assembler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BerichtRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		f, err := body.Filter.ToFilter()
		if err != nil {
			return err
		}

		bericht, err := assembler.Assemble(c.UserContext(), f, body.Optionen)
		if err != nil {
			return mapDomainErr(err)
		}

		if userID, userName, ok := auditUser(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "bericht",
				Action:      models.AuditActionBericht,
				Description: fmt.Sprintf("Bericht %q mit %d Chargen erzeugt", bericht.Titel, len(bericht.Chargen)),
			})
		}

		return c.JSON(bericht)
	}
}

// POST /api/chargen-berichte/export
// Baut den Bericht zusammen und liefert ihn direkt als Datei aus
func ExportBerichtHandler(assembler *Assembler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BerichtRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}

		f, err := body.Filter.ToFilter()
		if err != nil {
			return err
		}

		bericht, err := assembler.Assemble(c.UserContext(), f, body.Optionen)
		if err != nil {
			return mapDomainErr(err)
		}

		data, contentType, err := Export(bericht, body.Optionen.Format)
		if err != nil {
			return mapDomainErr(err)
		}

		if userID, userName, ok := auditUser(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "bericht",
				Action:      models.AuditActionBericht,
				Description: fmt.Sprintf("Bericht %q als %s exportiert", bericht.Titel, body.Optionen.Format),
			})
		}

		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", Dateiname(bericht, body.Optionen.Format)))
		return c.Send(data)
	}
}

type RueckrufSimulationRequest struct {
	ChargenIDs []uint `json:"chargen_ids"`
}

// POST /api/rueckruf/simulation
// Welche Chargen und Kunden wären betroffen, wenn diese Chargen
// kontaminiert sind?
func RueckrufSimulationHandler(resolver *VerfolgungsResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RueckrufSimulationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Request-Body")
		}
		if len(body.ChargenIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "chargen_ids darf nicht leer sein")
		}

		info, err := resolver.ComputeRueckruf(c.UserContext(), body.ChargenIDs)
		if err != nil {
			return mapDomainErr(err)
		}

		if userID, userName, ok := auditUser(c); ok {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "rueckruf",
				Action:      models.AuditActionRueckruf,
				Description: fmt.Sprintf("Rückruf-Simulation: %d Auslöser, %d betroffene Chargen, %d Kunden", len(body.ChargenIDs), len(info.BetroffeneChargen), len(info.BetroffeneKunden)),
			})
		}

		return c.JSON(info)
	}
}
