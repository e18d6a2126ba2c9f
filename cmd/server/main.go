package main

import (
	"log"
	"strings"

	"chargen-backend/internal/audit"
	"chargen-backend/internal/auth"
	"chargen-backend/internal/chargen"
	"chargen-backend/internal/config"
	"chargen-backend/internal/dashboard"
	"chargen-backend/internal/database"
	"chargen-backend/internal/intake"
	"chargen-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env ist optional, in Produktion kommen die Variablen aus der Umgebung
	if err := godotenv.Load(); err != nil {
		log.Println(".env nicht gefunden, nutze Umgebungsvariablen")
	}

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unerwarteter Fehler:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unerwarteter Serverfehler",
			})
		},
	})

	// CORS-Origins kommen kommagetrennt aus der Konfiguration
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	repo := chargen.NewGormRepository(database.DB)
	resolver := chargen.NewVerfolgungsResolver(repo)
	assembler := chargen.NewAssembler(repo)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Benutzerverwaltung nur für Admins
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler())

	// Chargenverwaltung
	protected.Get("/chargen", chargen.ListChargenHandler(repo))
	protected.Get("/chargen/:id", chargen.GetChargeHandler(repo))
	protected.Post("/chargen", chargen.CreateChargeHandler())
	protected.Put("/chargen/:id/qualitaetsstatus",
		auth.RequireRole(models.RoleAdmin, models.RoleQS), chargen.UpdateQualitaetsstatusHandler())

	// Verfolgungsgraph
	protected.Post("/chargen/:id/verfolgung", chargen.CreateVerfolgungHandler(resolver, repo))
	protected.Get("/chargen/:id/vorwaerts", chargen.VorwaertsHandler(resolver))
	protected.Get("/chargen/:id/rueckwaerts", chargen.RueckwaertsHandler(resolver))

	// Berichtswesen
	protected.Post("/chargen-berichte/generieren", chargen.GenerateBerichtHandler(assembler))
	protected.Post("/chargen-berichte/export", chargen.ExportBerichtHandler(assembler))

	// Rückruf-Simulation
	protected.Post("/rueckruf/simulation",
		auth.RequireRole(models.RoleAdmin, models.RoleQS), chargen.RueckrufSimulationHandler(resolver))

	// Wareneingang: Lieferschein-Parsing und Excel-Massenimport
	protected.Post("/lieferscheine/parse", intake.ParseLieferscheinPDFHandler())
	protected.Post("/chargen/import-excel",
		auth.RequireRole(models.RoleAdmin, models.RoleLager), intake.ImportChargenExcelHandler())

	// Dashboard
	protected.Get("/dashboard/chargen-stats", dashboard.ChargenStatsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server läuft auf Port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
