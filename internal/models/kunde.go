package models

import "time"

// Kunde: Kundenstamm inkl. Kontaktdaten für die Rückruf-Kommunikation
type Kunde struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Kundennummer    string `gorm:"size:50;uniqueIndex;not null" json:"kundennummer"`
	Name            string `gorm:"size:200;not null" json:"name"`
	Ansprechpartner string `gorm:"size:100" json:"ansprechpartner"`
	Telefon         string `gorm:"size:50" json:"telefon"`
	Email           string `gorm:"size:100" json:"email"`
	Adresse         string `gorm:"size:255" json:"adresse"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
