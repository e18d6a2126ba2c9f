package models

import "time"

// Lieferant: Lieferantenstamm
type Lieferant struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Lieferantennummer string `gorm:"size:50;uniqueIndex;not null" json:"lieferantennummer"`
	Name             string `gorm:"size:200;not null" json:"name"`
	Ansprechpartner  string `gorm:"size:100" json:"ansprechpartner"`
	Telefon          string `gorm:"size:50" json:"telefon"`
	Email            string `gorm:"size:100" json:"email"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
