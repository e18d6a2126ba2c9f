package models

import "time"

// ChargenVerfolgung: gerichtete Verbrauchskante zwischen zwei Chargen.
// Die Verbraucher-Charge wurde (teilweise) aus der Erzeuger-Charge hergestellt.
// Kanten sind append-only; der Graph muss azyklisch bleiben.
type ChargenVerfolgung struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	VerbraucherChargeID uint    `gorm:"index:idx_verfolgung_kante,unique;not null" json:"verbraucher_charge_id"`
	ErzeugerChargeID    uint    `gorm:"index:idx_verfolgung_kante,unique;index;not null" json:"erzeuger_charge_id"`
	Menge               float64 `gorm:"not null" json:"menge"` // verbrauchte Menge
	Einheit             string  `gorm:"size:20;not null" json:"einheit"`
	Prozess             string  `gorm:"size:50" json:"prozess"` // z.B. "produktion", "umpackung"
	CreatedAt           time.Time `json:"created_at"`
}
