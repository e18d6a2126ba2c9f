package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=chargen port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	// Produktions-Sicherheitschecks
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET Umgebungsvariable ist nicht gesetzt! Für Produktion zwingend erforderlich.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET muss mindestens 32 Zeichen lang sein! Sicherheitsrisiko.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=chargen port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN nutzt den Standardwert, für Produktion unbedingt eigene Postgres-Verbindung setzen.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS nutzt den Standardwert, für Produktion unbedingt eigene Domain setzen.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
