package models

import "time"

// Lieferung: Auslieferung einer Charge an einen Kunden
type Lieferung struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	ChargeID           uint   `gorm:"index;not null" json:"charge_id"`
	KundeID            uint   `gorm:"index;not null" json:"kunde_id"`
	Kunde              Kunde  `json:"kunde"`
	Lieferdatum        time.Time `gorm:"index;not null" json:"lieferdatum"`
	Menge              float64   `gorm:"not null" json:"menge"`
	Einheit            string    `gorm:"size:20;not null" json:"einheit"`
	Lieferscheinnummer string    `gorm:"size:50" json:"lieferscheinnummer"`
	CreatedAt          time.Time `json:"created_at"`
}
