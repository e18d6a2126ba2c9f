package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beispielLieferschein = `Mühlenwerke Lüneburg GmbH
Lieferschein-Nr.: LS-2026-0815
Lieferdatum: 15.03.2026

| Chargennummer | Artikelnummer | Bezeichnung | Menge | Einheit | MHD |
|---------------|---------------|-------------|-------|---------|-----|
| RM-2026-001 | ART-100 | Weizenmehl Type 550 | 1.250,5 | kg | 30.06.2026 |
| RM-2026-002 | ART-200 | Mineralfutter Rind | 500 | kg | |
Gesamt: 1.750,5 kg`

func TestParseLieferschein(t *testing.T) {
	ergebnis, err := ParseLieferschein(beispielLieferschein)
	require.NoError(t, err)

	assert.Equal(t, "LS-2026-0815", ergebnis.Lieferscheinnummer)
	assert.Equal(t, "2026-03-15", ergebnis.Lieferdatum)

	require.Len(t, ergebnis.Positionen, 2)

	p := ergebnis.Positionen[0]
	assert.Equal(t, "RM-2026-001", p.Chargennummer)
	assert.Equal(t, "ART-100", p.Artikelnummer)
	assert.Equal(t, "Weizenmehl Type 550", p.Bezeichnung)
	assert.Equal(t, 1250.5, p.Menge)
	assert.Equal(t, "kg", p.Einheit)
	assert.Equal(t, "2026-06-30", p.Mindesthaltbarkeit)

	// fehlendes MHD bleibt leer
	assert.Empty(t, ergebnis.Positionen[1].Mindesthaltbarkeit)
	assert.Equal(t, 500.0, ergebnis.Positionen[1].Menge)
}

func TestParseLieferscheinMehrzeiligeBezeichnung(t *testing.T) {
	text := `Lieferschein-Nr.: LS-1
| Chargennummer | Artikelnummer | Bezeichnung | Menge | Einheit | MHD |
| RM-1 | ART-1 | Rapsschrot | 100 | kg | 01.05.2026 |
| | | entölt, lose | | | |`

	ergebnis, err := ParseLieferschein(text)
	require.NoError(t, err)

	require.Len(t, ergebnis.Positionen, 1)
	assert.Equal(t, "Rapsschrot entölt, lose", ergebnis.Positionen[0].Bezeichnung)
}

func TestParseLieferscheinOhneTabelle(t *testing.T) {
	_, err := ParseLieferschein("nur Fließtext ohne Positionen")
	assert.Error(t, err)
}

func TestParseGermanFloat(t *testing.T) {
	faelle := map[string]float64{
		"1.234,56": 1234.56,
		"500":      500,
		"0,5":      0.5,
		"1.250,5 kg": 1250.5,
	}
	for eingabe, erwartet := range faelle {
		wert, err := parseGermanFloat(eingabe)
		require.NoError(t, err, eingabe)
		assert.Equal(t, erwartet, wert, eingabe)
	}

	_, err := parseGermanFloat("abc")
	assert.Error(t, err)
}
