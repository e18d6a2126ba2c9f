package chargen

import (
	"context"

	"chargen-backend/internal/models"
)

// CollectQualitaet: gruppiert Prüfergebnisse nach Charge. Jede übergebene
// Chargen-ID erscheint als Schlüssel, notfalls mit leerer Liste — eine Charge
// ohne Prüfungen fällt nicht stillschweigend raus.
func CollectQualitaet(ctx context.Context, repo Repository, chargenIDs []uint) (map[uint][]models.Qualitaetstest, error) {
	result := make(map[uint][]models.Qualitaetstest, len(chargenIDs))
	for _, id := range chargenIDs {
		result[id] = []models.Qualitaetstest{}
	}

	tests, err := repo.GetQualitaetstests(ctx, chargenIDs)
	if err != nil {
		return nil, err
	}
	for _, t := range tests {
		result[t.ChargeID] = append(result[t.ChargeID], t)
	}

	return result, nil
}

// CollectDokumente: gruppiert Dokumentreferenzen nach Charge, gleiche
// Vollständigkeitsgarantie wie CollectQualitaet
func CollectDokumente(ctx context.Context, repo Repository, chargenIDs []uint) (map[uint][]models.Dokument, error) {
	result := make(map[uint][]models.Dokument, len(chargenIDs))
	for _, id := range chargenIDs {
		result[id] = []models.Dokument{}
	}

	docs, err := repo.GetDokumente(ctx, chargenIDs)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		result[d.ChargeID] = append(result[d.ChargeID], d)
	}

	return result, nil
}
