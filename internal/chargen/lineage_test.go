package chargen

import (
	"context"
	"testing"

	"chargen-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRueckwaertsOhneKanten(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "RM-2026-001", models.QualitaetFreigegeben)

	resolver := NewVerfolgungsResolver(repo)
	v, err := resolver.ResolveRueckwaerts(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), v.StartChargeID)
	assert.Empty(t, v.Chargen)
	assert.Empty(t, v.Wurzel.Kinder)
}

func TestResolveKette(t *testing.T) {
	// A (Rohstoff) -> B (Zwischenprodukt) -> C (Fertigprodukt)
	repo := newMemRepo()
	repo.addCharge(1, "RM-2026-001", models.QualitaetFreigegeben)
	repo.addCharge(2, "ZW-2026-001", models.QualitaetFreigegeben)
	repo.addCharge(3, "FP-2026-001", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 50)
	repo.addKante(2, 3, 30)

	resolver := NewVerfolgungsResolver(repo)

	vor, err := resolver.ResolveVorwaerts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, vor.ChargenIDs())

	rueck, err := resolver.ResolveRueckwaerts(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, rueck.ChargenIDs())

	// Mengen am Baum sind die Kantenmengen
	require.Len(t, vor.Wurzel.Kinder, 1)
	assert.Equal(t, 50.0, vor.Wurzel.Kinder[0].Menge)
	assert.Equal(t, 1, vor.Wurzel.Kinder[0].Tiefe)
	require.Len(t, vor.Wurzel.Kinder[0].Kinder, 1)
	assert.Equal(t, 2, vor.Wurzel.Kinder[0].Kinder[0].Tiefe)
}

func TestResolveRauteDedupliziert(t *testing.T) {
	// A fließt über B und C in D; D darf nur einmal in der Menge auftauchen
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetFreigegeben)
	repo.addCharge(3, "C", models.QualitaetFreigegeben)
	repo.addCharge(4, "D", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 10)
	repo.addKante(1, 3, 10)
	repo.addKante(2, 4, 5)
	repo.addKante(3, 4, 5)

	resolver := NewVerfolgungsResolver(repo)
	v, err := resolver.ResolveVorwaerts(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []uint{2, 3, 4}, v.ChargenIDs())

	// D erscheint im Baum unter beiden Pfaden, expandiert wird es nur einmal
	anzahlD := 0
	walkKnoten(v.Wurzel, func(k *VerfolgungsKnoten) {
		if k.ChargeID == 4 {
			anzahlD++
		}
	})
	assert.Equal(t, 2, anzahlD)
}

func TestResolveGesperrteChargenWerdenTraversiert(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetGesperrt)
	repo.addCharge(3, "C", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 10)
	repo.addKante(2, 3, 5)

	resolver := NewVerfolgungsResolver(repo)
	v, err := resolver.ResolveVorwaerts(context.Background(), 1)
	require.NoError(t, err)

	// die gesperrte Charge unterbricht die Verfolgung nicht
	assert.Equal(t, []uint{2, 3}, v.ChargenIDs())
}

func TestResolveZyklusWirdErkannt(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetFreigegeben)
	repo.addCharge(3, "C", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 10)
	repo.addKante(2, 3, 10)
	repo.addKante(3, 1, 10)

	resolver := NewVerfolgungsResolver(repo)
	_, err := resolver.ResolveVorwaerts(context.Background(), 1)
	assert.ErrorIs(t, err, ErrZyklischeVerfolgung)
}

func TestResolveZyklusHinterRaute(t *testing.T) {
	// Zyklus D -> B, der hinter einem bereits expandierten Knoten liegt.
	// Ein reiner Pfad-Check würde ihn je nach Expansionsreihenfolge übersehen.
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetFreigegeben)
	repo.addCharge(3, "C", models.QualitaetFreigegeben)
	repo.addCharge(4, "D", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 1)
	repo.addKante(1, 3, 1)
	repo.addKante(2, 4, 1)
	repo.addKante(3, 4, 1)
	repo.addKante(4, 2, 1)

	resolver := NewVerfolgungsResolver(repo)
	_, err := resolver.ResolveVorwaerts(context.Background(), 1)
	assert.ErrorIs(t, err, ErrZyklischeVerfolgung)
}

func TestResolveUnbekannteCharge(t *testing.T) {
	resolver := NewVerfolgungsResolver(newMemRepo())
	_, err := resolver.ResolveVorwaerts(context.Background(), 99)
	assert.ErrorIs(t, err, ErrChargeNotFound)
}

func TestResolveAbgebrochenerContext(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	repo.addCharge(2, "B", models.QualitaetFreigegeben)
	repo.addKante(1, 2, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewVerfolgungsResolver(repo)
	_, err := resolver.ResolveVorwaerts(ctx, 1)
	assert.Error(t, err)
}

func TestResolveDeterministisch(t *testing.T) {
	repo := newMemRepo()
	repo.addCharge(1, "A", models.QualitaetFreigegeben)
	for id := uint(2); id <= 6; id++ {
		repo.addCharge(id, "K", models.QualitaetFreigegeben)
		repo.addKante(1, id, float64(id))
	}

	resolver := NewVerfolgungsResolver(repo)

	erste, err := resolver.ResolveVorwaerts(context.Background(), 1)
	require.NoError(t, err)
	zweite, err := resolver.ResolveVorwaerts(context.Background(), 1)
	require.NoError(t, err)

	// gleiche Kindreihenfolge trotz paralleler Repository-Zugriffe
	require.Equal(t, len(erste.Wurzel.Kinder), len(zweite.Wurzel.Kinder))
	for i := range erste.Wurzel.Kinder {
		assert.Equal(t, erste.Wurzel.Kinder[i].ChargeID, zweite.Wurzel.Kinder[i].ChargeID)
	}
}
