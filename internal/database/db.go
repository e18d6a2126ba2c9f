package database

import (
	"log"

	"chargen-backend/internal/config"
	"chargen-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Verbindung zur Datenbank fehlgeschlagen: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Artikel{},
		&models.Lieferant{},
		&models.Kunde{},
		&models.Charge{},
		&models.ChargenVerfolgung{},
		&models.Qualitaetstest{},
		&models.Dokument{},
		&models.Lieferung{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate fehlgeschlagen: %v", err)
	}

	log.Println("Datenbankverbindung steht. Migration abgeschlossen.")
}
