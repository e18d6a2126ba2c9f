package models

import "time"

// Qualitaetstest: einzelnes Prüfergebnis zu einer Charge
type Qualitaetstest struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ChargeID   uint    `gorm:"index;not null" json:"charge_id"`
	Parameter  string  `gorm:"size:100;not null" json:"parameter"` // z.B. "Feuchtigkeit", "Protein"
	Wert       float64 `gorm:"not null" json:"wert"`
	Einheit    string  `gorm:"size:20" json:"einheit"`
	MinWert    *float64 `json:"min_wert"` // Akzeptanzbereich, offen wenn nil
	MaxWert    *float64 `json:"max_wert"`
	Bestanden  bool      `gorm:"not null" json:"bestanden"`
	Pruefdatum time.Time `gorm:"index;not null" json:"pruefdatum"`
	Pruefer    string    `gorm:"size:100" json:"pruefer"`
	CreatedAt  time.Time `json:"created_at"`
}
