package chargen

import (
	"context"
	"sort"

	"chargen-backend/internal/models"
)

// BetroffenerKunde: ein Kunde mit allen Chargen, die ihn betreffen
type BetroffenerKunde struct {
	Kunde       models.Kunde       `json:"kunde"`
	ChargenIDs  []uint             `json:"chargen_ids"`
	Lieferungen []models.Lieferung `json:"lieferungen"`
}

// RueckrufInfo: Ergebnis einer Rückruf-Folgenabschätzung.
// Betroffen sind die Auslöser-Chargen selbst plus ihr gesamter
// Vorwärts-Abschluss. Gesperrte Chargen werden mittraversiert: eine gesperrte
// Charge ist physisch trotzdem in ihre Verbraucher geflossen.
type RueckrufInfo struct {
	AusloeserChargenIDs []uint             `json:"ausloeser_chargen_ids"`
	BetroffeneChargen   []models.Charge    `json:"betroffene_chargen"`
	BetroffeneKunden    []BetroffenerKunde `json:"betroffene_kunden"`
}

// ComputeRueckruf: vereinigt die Vorwärts-Abschlüsse aller Auslöser-Chargen
// und ordnet den betroffenen Chargen ihre Kunden zu. Jeder Kunde erscheint
// genau einmal, auch wenn ihn mehrere Auslöser treffen. Die Ausgabe ist
// stabil sortiert, damit Exporte reproduzierbar sind.
func (r *VerfolgungsResolver) ComputeRueckruf(ctx context.Context, ausloeserIDs []uint) (*RueckrufInfo, error) {
	betroffen := make(map[uint]models.Charge)

	for _, seedID := range ausloeserIDs {
		v, err := r.ResolveVorwaerts(ctx, seedID)
		if err != nil {
			return nil, err
		}

		seed, err := r.repo.GetCharge(ctx, seedID)
		if err != nil {
			return nil, err
		}
		betroffen[seedID] = *seed

		for id, ch := range v.Chargen {
			betroffen[id] = ch
		}
	}

	betroffeneIDs := make([]uint, 0, len(betroffen))
	for id := range betroffen {
		betroffeneIDs = append(betroffeneIDs, id)
	}
	sort.Slice(betroffeneIDs, func(i, j int) bool { return betroffeneIDs[i] < betroffeneIDs[j] })

	// Kunden über die Lieferungen der betroffenen Chargen aggregieren
	kunden := make(map[uint]*BetroffenerKunde)
	for _, chargeID := range betroffeneIDs {
		lieferungen, err := r.repo.GetLieferungen(ctx, chargeID)
		if err != nil {
			return nil, err
		}
		for _, l := range lieferungen {
			k, ok := kunden[l.KundeID]
			if !ok {
				k = &BetroffenerKunde{Kunde: l.Kunde}
				kunden[l.KundeID] = k
			}
			k.Lieferungen = append(k.Lieferungen, l)
			if len(k.ChargenIDs) == 0 || k.ChargenIDs[len(k.ChargenIDs)-1] != chargeID {
				k.ChargenIDs = append(k.ChargenIDs, chargeID)
			}
		}
	}

	info := &RueckrufInfo{
		AusloeserChargenIDs: append([]uint(nil), ausloeserIDs...),
		BetroffeneChargen:   make([]models.Charge, 0, len(betroffeneIDs)),
		BetroffeneKunden:    make([]BetroffenerKunde, 0, len(kunden)),
	}
	sort.Slice(info.AusloeserChargenIDs, func(i, j int) bool {
		return info.AusloeserChargenIDs[i] < info.AusloeserChargenIDs[j]
	})

	for _, id := range betroffeneIDs {
		info.BetroffeneChargen = append(info.BetroffeneChargen, betroffen[id])
	}
	for _, k := range kunden {
		info.BetroffeneKunden = append(info.BetroffeneKunden, *k)
	}
	sort.Slice(info.BetroffeneKunden, func(i, j int) bool {
		return info.BetroffeneKunden[i].Kunde.ID < info.BetroffeneKunden[j].Kunde.ID
	})

	return info, nil
}
