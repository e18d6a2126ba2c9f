package chargen

import (
	"context"
	"errors"
	"testing"
	"time"

	"chargen-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleLeereKandidatenmenge(t *testing.T) {
	assembler := NewAssembler(newMemRepo())

	b, err := assembler.Assemble(context.Background(), Filter{}, Optionen{
		IncludeQualitaetsdaten: true,
		IncludeGrafiken:        true,
	})
	require.NoError(t, err)

	// leere Auswahl ist ein gültiger Bericht, kein Fehler
	assert.Empty(t, b.Chargen)
	assert.NotNil(t, b.Qualitaet)
	assert.NotNil(t, b.Grafiken)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Chargenbericht", b.Titel)
}

func TestAssembleNurAngeforderteAbschnitte(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)

	assembler := NewAssembler(repo)
	b, err := assembler.Assemble(context.Background(), Filter{}, Optionen{
		IncludeQualitaetsdaten: true,
		Titel:                  "Monatsbericht März",
	})
	require.NoError(t, err)

	assert.Equal(t, "Monatsbericht März", b.Titel)
	assert.NotNil(t, b.Qualitaet)
	assert.Nil(t, b.Vorwaerts)
	assert.Nil(t, b.Rueckwaerts)
	assert.Nil(t, b.Dokumente)
	assert.Nil(t, b.Rueckruf)
	assert.Nil(t, b.Grafiken)
}

func TestAssembleStatusFilter(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetGesperrt)
	repo.addCharge(3, "C", models.QualitaetInPruefung)
	repo.addCharge(4, "D", models.QualitaetFreigegeben)

	assembler := NewAssembler(repo)
	b, err := assembler.Assemble(context.Background(),
		Filter{Qualitaetsstatus: models.QualitaetGesperrt}, Optionen{})
	require.NoError(t, err)

	require.Len(t, b.Chargen, 1)
	assert.Equal(t, "B", b.Chargen[0].Chargennummer)
}

func TestAssembleFilterMonotonie(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetGesperrt)
	ch := repo.chargen[2]
	ch.Lagerort = "Halle 2"
	repo.chargen[2] = ch

	assembler := NewAssembler(repo)

	alle, err := assembler.Assemble(context.Background(), Filter{}, Optionen{})
	require.NoError(t, err)
	eng, err := assembler.Assemble(context.Background(),
		Filter{Qualitaetsstatus: models.QualitaetGesperrt, Lagerort: "Halle 2"}, Optionen{})
	require.NoError(t, err)

	// jedes zusätzliche Prädikat verkleinert die Auswahl höchstens
	assert.LessOrEqual(t, len(eng.Chargen), len(alle.Chargen))
	for _, c := range eng.Chargen {
		assert.Contains(t, alle.Chargen, c)
	}
}

func TestAssembleVerfolgungProCharge(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 10)

	assembler := NewAssembler(repo)
	b, err := assembler.Assemble(context.Background(), Filter{}, Optionen{
		IncludeVorwaertsVerfolgung:   true,
		IncludeRueckwaertsVerfolgung: true,
	})
	require.NoError(t, err)

	require.Contains(t, b.Vorwaerts, uint(1))
	assert.Equal(t, []uint{2}, b.Vorwaerts[1].ChargenIDs())
	require.Contains(t, b.Rueckwaerts, uint(2))
	assert.Equal(t, []uint{1}, b.Rueckwaerts[2].ChargenIDs())
}

func TestAssembleFehlerBrichtKomplettAb(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)

	assembler := NewAssembler(repo)
	repo.failWith = ErrRepositoryUnavailable

	b, err := assembler.Assemble(context.Background(), Filter{}, Optionen{
		IncludeQualitaetsdaten: true,
	})
	assert.Nil(t, b)

	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
	assert.ErrorIs(t, err, ErrRepositoryUnavailable)
}

func TestAssemblyErrorBenenntAbschnitt(t *testing.T) {
	repo := newMemRepo()
	repo.failWith = ErrRepositoryUnavailable

	assembler := NewAssembler(repo)
	_, err := assembler.Assemble(context.Background(), Filter{}, Optionen{})

	var asmErr *AssemblyError
	require.True(t, errors.As(err, &asmErr))
	assert.Equal(t, "chargenauswahl", asmErr.Abschnitt)
}

func TestBerechneGrafiken(t *testing.T) {
	stichtag := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	mhd := func(tage int) *time.Time {
		d := stichtag.AddDate(0, 0, tage)
		return &d
	}

	chargen := []models.Charge{
		{Qualitaetsstatus: models.QualitaetFreigegeben, Mindesthaltbarkeit: mhd(-1)},
		{Qualitaetsstatus: models.QualitaetFreigegeben, Mindesthaltbarkeit: mhd(10)},
		{Qualitaetsstatus: models.QualitaetGesperrt, Mindesthaltbarkeit: mhd(60)},
		{Qualitaetsstatus: models.QualitaetInPruefung, Mindesthaltbarkeit: mhd(365)},
		{Qualitaetsstatus: models.QualitaetInPruefung},
	}

	g := berechneGrafiken(chargen, stichtag)

	assert.Equal(t, 2, g.StatusVerteilung[models.QualitaetFreigegeben])
	assert.Equal(t, 1, g.StatusVerteilung[models.QualitaetGesperrt])
	assert.Equal(t, 2, g.StatusVerteilung[models.QualitaetInPruefung])

	require.Len(t, g.MhdBuckets, 5)
	labels := make(map[string]int)
	for _, b := range g.MhdBuckets {
		labels[b.Label] = b.Anzahl
	}
	assert.Equal(t, 1, labels["abgelaufen"])
	assert.Equal(t, 1, labels["unter_30_tage"])
	assert.Equal(t, 1, labels["unter_90_tage"])
	assert.Equal(t, 1, labels["ueber_90_tage"])
	assert.Equal(t, 1, labels["ohne_mhd"])
}
