package models

import "time"

type DokumentTyp string

const (
	DokumentLieferschein     DokumentTyp = "lieferschein"
	DokumentZertifikat       DokumentTyp = "zertifikat"
	DokumentFreigabeprotokoll DokumentTyp = "freigabeprotokoll"
)

// Dokument: Verweis auf ein abgelegtes Dokument zu einer Charge.
// Die Datei selbst liegt im Dokumentenarchiv, hier nur die Referenz.
type Dokument struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ChargeID  uint        `gorm:"index;not null" json:"charge_id"`
	Typ       DokumentTyp `gorm:"size:30;not null" json:"typ"`
	Dateiname string      `gorm:"size:255;not null" json:"dateiname"`
	Datum     time.Time   `json:"datum"`
	CreatedAt time.Time   `json:"created_at"`
}
