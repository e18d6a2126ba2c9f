package models

import "time"

type Qualitaetsstatus string

const (
	QualitaetFreigegeben Qualitaetsstatus = "freigegeben"
	QualitaetGesperrt    Qualitaetsstatus = "gesperrt"
	QualitaetInPruefung  Qualitaetsstatus = "in_pruefung"
)

// GueltigerQualitaetsstatus: prüft ob der Status zum festen Wertebereich gehört
func GueltigerQualitaetsstatus(s Qualitaetsstatus) bool {
	switch s {
	case QualitaetFreigegeben, QualitaetGesperrt, QualitaetInPruefung:
		return true
	}
	return false
}

// Charge: rückverfolgbare Partie (Wareneingang oder Produktion).
// Nach dem Anlegen unveränderlich, nur der Qualitätsstatus darf wechseln.
// Chargen werden nie gelöscht.
type Charge struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	Chargennummer      string `gorm:"size:50;uniqueIndex;not null" json:"chargennummer"`
	ArtikelID          uint   `gorm:"index;not null" json:"artikel_id"`
	Artikel            Artikel `json:"artikel"`
	LieferantID        *uint      `gorm:"index" json:"lieferant_id"` // nil bei Eigenproduktion
	Lieferant          *Lieferant `json:"lieferant,omitempty"`
	Menge              float64   `gorm:"not null" json:"menge"`
	Einheit            string    `gorm:"size:20;not null" json:"einheit"`
	Herstelldatum      *time.Time `json:"herstelldatum"`
	Mindesthaltbarkeit *time.Time `gorm:"index" json:"mindesthaltbarkeit"`
	Eingangsdatum      time.Time  `gorm:"index;not null" json:"eingangsdatum"`
	Lagerort           string     `gorm:"size:100" json:"lagerort"`
	Qualitaetsstatus   Qualitaetsstatus `gorm:"size:20;index;not null;default:in_pruefung" json:"qualitaetsstatus"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
