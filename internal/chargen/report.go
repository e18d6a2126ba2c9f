package chargen

import (
	"context"
	"time"

	"chargen-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"
	FormatCSV   = "csv"
)

// Optionen: Berichtsoptionen, einmal pro Anfrage aufgebaut und unverändert
// durch die Pipeline gereicht
type Optionen struct {
	Format                       string `json:"format"`
	IncludeVorwaertsVerfolgung   bool   `json:"includeVorwaertsVerfolgung"`
	IncludeRueckwaertsVerfolgung bool   `json:"includeRueckwaertsVerfolgung"`
	IncludeQualitaetsdaten       bool   `json:"includeQualitaetsdaten"`
	IncludeDokumente             bool   `json:"includeDokumente"`
	IncludeRueckrufInfo          bool   `json:"includeRueckrufInfo"`
	IncludeGrafiken              bool   `json:"includeGrafiken"`
	Titel                        string `json:"titel"`
}

// MhdBucket: Anzahl Chargen je Restlaufzeit-Klasse
type MhdBucket struct {
	Label  string `json:"label"`
	Anzahl int    `json:"anzahl"`
}

// GrafikDaten: aggregierte Daten für die Diagramm-Abschnitte des Berichts.
// Das Zeichnen selbst übernimmt das jeweilige Ausgabeformat bzw. das Frontend.
type GrafikDaten struct {
	StatusVerteilung map[models.Qualitaetsstatus]int `json:"status_verteilung"`
	MhdBuckets       []MhdBucket                     `json:"mhd_buckets"`
}

// Bericht: unveränderlicher Berichts-Schnappschuss. Nach dem Zusammenbau
// sieht der Bericht spätere Änderungen am Chargenbestand nicht mehr.
// Nur angeforderte Abschnitte sind befüllt.
type Bericht struct {
	ID         string    `json:"id"`
	Titel      string    `json:"titel"`
	ErstelltAm time.Time `json:"erstelltAm"`
	Filter     Filter    `json:"filter"`
	Optionen   Optionen  `json:"optionen"`

	Chargen []models.Charge `json:"chargen"`

	Vorwaerts   map[uint]*Verfolgung             `json:"vorwaertsVerfolgung,omitempty"`
	Rueckwaerts map[uint]*Verfolgung             `json:"rueckwaertsVerfolgung,omitempty"`
	Qualitaet   map[uint][]models.Qualitaetstest `json:"qualitaetsdaten,omitempty"`
	Dokumente   map[uint][]models.Dokument       `json:"dokumente,omitempty"`
	Rueckruf    *RueckrufInfo                    `json:"rueckrufInfo,omitempty"`
	Grafiken    *GrafikDaten                     `json:"grafiken,omitempty"`
}

// Assembler: baut aus Filter und Optionen einen vollständigen Bericht
type Assembler struct {
	repo     Repository
	resolver *VerfolgungsResolver
}

func NewAssembler(repo Repository) *Assembler {
	return &Assembler{
		repo:     repo,
		resolver: NewVerfolgungsResolver(repo),
	}
}

// Assemble: löst die Kandidaten-Chargen über den Filter auf und berechnet die
// angeforderten Abschnitte. Die Abschnitte sind voneinander unabhängig und
// rein lesend, deshalb laufen sie parallel. Schlägt ein angeforderter
// Abschnitt fehl, bricht der gesamte Zusammenbau ab — ein Bericht wird nie
// halb befüllt zurückgegeben. Eine leere Kandidatenmenge ist kein Fehler.
func (a *Assembler) Assemble(ctx context.Context, f Filter, opt Optionen) (*Bericht, error) {
	chargen, err := a.repo.FindChargen(ctx, f)
	if err != nil {
		return nil, &AssemblyError{Abschnitt: "chargenauswahl", Err: err}
	}

	ids := make([]uint, 0, len(chargen))
	for _, ch := range chargen {
		ids = append(ids, ch.ID)
	}

	var (
		vorwaerts   map[uint]*Verfolgung
		rueckwaerts map[uint]*Verfolgung
		qualitaet   map[uint][]models.Qualitaetstest
		dokumente   map[uint][]models.Dokument
		rueckruf    *RueckrufInfo
	)

	g, gctx := errgroup.WithContext(ctx)

	if opt.IncludeVorwaertsVerfolgung {
		g.Go(func() error {
			m := make(map[uint]*Verfolgung, len(ids))
			for _, id := range ids {
				v, err := a.resolver.ResolveVorwaerts(gctx, id)
				if err != nil {
					return &AssemblyError{Abschnitt: "vorwaertsverfolgung", Err: err}
				}
				m[id] = v
			}
			vorwaerts = m
			return nil
		})
	}

	if opt.IncludeRueckwaertsVerfolgung {
		g.Go(func() error {
			m := make(map[uint]*Verfolgung, len(ids))
			for _, id := range ids {
				v, err := a.resolver.ResolveRueckwaerts(gctx, id)
				if err != nil {
					return &AssemblyError{Abschnitt: "rueckwaertsverfolgung", Err: err}
				}
				m[id] = v
			}
			rueckwaerts = m
			return nil
		})
	}

	if opt.IncludeQualitaetsdaten {
		g.Go(func() error {
			q, err := CollectQualitaet(gctx, a.repo, ids)
			if err != nil {
				return &AssemblyError{Abschnitt: "qualitaetsdaten", Err: err}
			}
			qualitaet = q
			return nil
		})
	}

	if opt.IncludeDokumente {
		g.Go(func() error {
			d, err := CollectDokumente(gctx, a.repo, ids)
			if err != nil {
				return &AssemblyError{Abschnitt: "dokumente", Err: err}
			}
			dokumente = d
			return nil
		})
	}

	if opt.IncludeRueckrufInfo {
		g.Go(func() error {
			// Die Kandidatenmenge ist die Kontaminations-Annahme
			info, err := a.resolver.ComputeRueckruf(gctx, ids)
			if err != nil {
				return &AssemblyError{Abschnitt: "rueckrufinfo", Err: err}
			}
			rueckruf = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	titel := opt.Titel
	if titel == "" {
		titel = "Chargenbericht"
	}

	b := &Bericht{
		ID:          uuid.NewString(),
		Titel:       titel,
		ErstelltAm:  time.Now().UTC(),
		Filter:      f,
		Optionen:    opt,
		Chargen:     chargen,
		Vorwaerts:   vorwaerts,
		Rueckwaerts: rueckwaerts,
		Qualitaet:   qualitaet,
		Dokumente:   dokumente,
		Rueckruf:    rueckruf,
	}

	if opt.IncludeGrafiken {
		b.Grafiken = berechneGrafiken(chargen, b.ErstelltAm)
	}

	return b, nil
}

// berechneGrafiken: Statusverteilung und MHD-Restlaufzeiten über die
// Kandidatenmenge. Stichtag ist der Berichtszeitpunkt, nicht die Wanduhr,
// damit der Export reproduzierbar bleibt.
func berechneGrafiken(chargen []models.Charge, stichtag time.Time) *GrafikDaten {
	g := &GrafikDaten{
		StatusVerteilung: make(map[models.Qualitaetsstatus]int),
	}

	buckets := map[string]int{
		"abgelaufen":    0,
		"unter_30_tage": 0,
		"unter_90_tage": 0,
		"ueber_90_tage": 0,
		"ohne_mhd":      0,
	}

	for _, ch := range chargen {
		g.StatusVerteilung[ch.Qualitaetsstatus]++

		if ch.Mindesthaltbarkeit == nil {
			buckets["ohne_mhd"]++
			continue
		}
		rest := ch.Mindesthaltbarkeit.Sub(stichtag)
		switch {
		case rest < 0:
			buckets["abgelaufen"]++
		case rest < 30*24*time.Hour:
			buckets["unter_30_tage"]++
		case rest < 90*24*time.Hour:
			buckets["unter_90_tage"]++
		default:
			buckets["ueber_90_tage"]++
		}
	}

	// feste Reihenfolge für reproduzierbare Exporte
	reihenfolge := []string{"abgelaufen", "unter_30_tage", "unter_90_tage", "ueber_90_tage", "ohne_mhd"}
	for _, label := range reihenfolge {
		g.MhdBuckets = append(g.MhdBuckets, MhdBucket{Label: label, Anzahl: buckets[label]})
	}

	return g
}
