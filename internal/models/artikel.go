package models

import "time"

// Artikel: Artikelstamm (Futtermittel, Rohstoffe, Fertigprodukte)
type Artikel struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Artikelnummer string `gorm:"size:50;uniqueIndex;not null" json:"artikelnummer"`
	Bezeichnung   string `gorm:"size:200;not null" json:"bezeichnung"`
	Kategorie     string `gorm:"size:100" json:"kategorie"` // z.B. "Getreide", "Mineralfutter"
	Einheit       string `gorm:"size:20;not null" json:"einheit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
