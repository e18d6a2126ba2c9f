package chargen

import (
	"context"
	"sort"
	"time"

	"chargen-backend/internal/models"
)

// memRepo: In-Memory-Repository für die Tests, gleiche Ordnungsgarantien
// wie das echte Repository (ID-aufsteigend)
type memRepo struct {
	chargen     map[uint]models.Charge
	kanten      []models.ChargenVerfolgung
	tests       []models.Qualitaetstest
	dokumente   []models.Dokument
	lieferungen []models.Lieferung

	// wenn gesetzt, schlägt jeder Zugriff mit diesem Fehler fehl
	failWith error
}

func newMemRepo() *memRepo {
	return &memRepo{chargen: make(map[uint]models.Charge)}
}

func (m *memRepo) addCharge(id uint, nummer string, status models.Qualitaetsstatus) models.Charge {
	ch := models.Charge{
		ID:               id,
		Chargennummer:    nummer,
		ArtikelID:        1,
		Artikel:          models.Artikel{ID: 1, Bezeichnung: "Weizenmehl Type 550"},
		Menge:            100,
		Einheit:          "kg",
		Eingangsdatum:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lagerort:         "Halle 1",
		Qualitaetsstatus: status,
	}
	m.chargen[id] = ch
	return ch
}

func (m *memRepo) addKante(erzeugerID, verbraucherID uint, menge float64) {
	m.kanten = append(m.kanten, models.ChargenVerfolgung{
		ID:                  uint(len(m.kanten) + 1),
		VerbraucherChargeID: verbraucherID,
		ErzeugerChargeID:    erzeugerID,
		Menge:               menge,
		Einheit:             "kg",
		Prozess:             "produktion",
	})
}

func (m *memRepo) FindChargen(_ context.Context, f Filter) ([]models.Charge, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Charge
	for _, ch := range m.chargen {
		if f.ArtikelID != nil && ch.ArtikelID != *f.ArtikelID {
			continue
		}
		if f.LieferantID != nil && (ch.LieferantID == nil || *ch.LieferantID != *f.LieferantID) {
			continue
		}
		if f.Qualitaetsstatus != "" && ch.Qualitaetsstatus != f.Qualitaetsstatus {
			continue
		}
		if f.Lagerort != "" && ch.Lagerort != f.Lagerort {
			continue
		}
		if f.VonDatum != nil && ch.Eingangsdatum.Before(*f.VonDatum) {
			continue
		}
		if f.BisDatum != nil && ch.Eingangsdatum.After(*f.BisDatum) {
			continue
		}
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetCharge(_ context.Context, id uint) (*models.Charge, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	ch, ok := m.chargen[id]
	if !ok {
		return nil, ErrChargeNotFound
	}
	return &ch, nil
}

func (m *memRepo) GetErzeugerEdges(_ context.Context, verbraucherID uint) ([]models.ChargenVerfolgung, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.ChargenVerfolgung
	for _, e := range m.kanten {
		if e.VerbraucherChargeID == verbraucherID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepo) GetVerbraucherEdges(_ context.Context, erzeugerID uint) ([]models.ChargenVerfolgung, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.ChargenVerfolgung
	for _, e := range m.kanten {
		if e.ErzeugerChargeID == erzeugerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepo) GetQualitaetstests(_ context.Context, chargenIDs []uint) ([]models.Qualitaetstest, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	gesucht := make(map[uint]struct{}, len(chargenIDs))
	for _, id := range chargenIDs {
		gesucht[id] = struct{}{}
	}
	var out []models.Qualitaetstest
	for _, t := range m.tests {
		if _, ok := gesucht[t.ChargeID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) GetDokumente(_ context.Context, chargenIDs []uint) ([]models.Dokument, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	gesucht := make(map[uint]struct{}, len(chargenIDs))
	for _, id := range chargenIDs {
		gesucht[id] = struct{}{}
	}
	var out []models.Dokument
	for _, d := range m.dokumente {
		if _, ok := gesucht[d.ChargeID]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memRepo) GetLieferungen(_ context.Context, chargeID uint) ([]models.Lieferung, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Lieferung
	for _, l := range m.lieferungen {
		if l.ChargeID == chargeID {
			out = append(out, l)
		}
	}
	return out, nil
}
