package chargen

import (
	"context"
	"testing"
	"time"

	"chargen-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectQualitaetVollstaendigeSchluessel(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetInPruefung)
	repo.tests = append(repo.tests, models.Qualitaetstest{
		ID: 1, ChargeID: 1, Parameter: "Feuchtigkeit", Wert: 12.5, Einheit: "%",
		Bestanden: true, Pruefdatum: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Pruefer: "K. Brandt",
	})

	result, err := CollectQualitaet(context.Background(), repo, []uint{1, 2})
	require.NoError(t, err)

	// Charge 2 hat keine Prüfungen, muss aber als Schlüssel auftauchen
	require.Len(t, result, 2)
	assert.Len(t, result[1], 1)
	assert.Empty(t, result[2])
	assert.Equal(t, "Feuchtigkeit", result[1][0].Parameter)
}

func TestCollectDokumenteVollstaendigeSchluessel(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetFreigegeben)
	repo.dokumente = append(repo.dokumente,
		models.Dokument{ID: 1, ChargeID: 1, Typ: models.DokumentLieferschein, Dateiname: "ls-4711.pdf"},
		models.Dokument{ID: 2, ChargeID: 1, Typ: models.DokumentZertifikat, Dateiname: "zert-4711.pdf"},
	)

	result, err := CollectDokumente(context.Background(), repo, []uint{1, 2})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Len(t, result[1], 2)
	assert.Empty(t, result[2])
}
