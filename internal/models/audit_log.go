package models

import "time"

type AuditAction string

const (
	AuditActionCreate        AuditAction = "create"
	AuditActionStatusWechsel AuditAction = "status_wechsel"
	AuditActionBericht       AuditAction = "bericht"
	AuditActionRueckruf      AuditAction = "rueckruf_simulation"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Wer hat die Aktion ausgelöst?
	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalisiert

	// Welche Entität? (z.B. "charge", "chargen_verfolgung", "bericht")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:30" json:"action"`

	// Kurze Beschreibung der Aktion
	Description string `gorm:"size:255" json:"description"`

	// Zustand vor und nach der Aktion (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
