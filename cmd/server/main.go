package main

import (
	"log"
	"strings"

	"ecole-backend/internal/audit"
	"ecole-backend/internal/auth"
	"ecole-backend/internal/classes"
	"ecole-backend/internal/config"
	"ecole-backend/internal/dashboard"
	"ecole-backend/internal/database"
	"ecole-backend/internal/expense"
	"ecole-backend/internal/fees"
	"ecole-backend/internal/models"
	"ecole-backend/internal/payments"
	"ecole-backend/internal/payroll"
	"ecole-backend/internal/professors"
	"ecole-backend/internal/recovery"
	"ecole-backend/internal/students"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erreur inattendue:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erreur serveur inattendue",
			})
		},
	})

	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protégé
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Routes admin uniquement
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler())

	adminRoutes.Post("/categories-depenses", expense.CreateCategorieHandler())
	adminRoutes.Put("/categories-depenses/:id", expense.UpdateCategorieHandler())
	adminRoutes.Delete("/categories-depenses/:id", expense.DeleteCategorieHandler())

	adminRoutes.Post("/budgets", expense.CreateBudgetHandler())
	adminRoutes.Delete("/budgets/:id", expense.DeleteBudgetHandler())

	// Classes
	protected.Post("/classes", classes.CreateClasseHandler())
	protected.Get("/classes", classes.ListClassesHandler())
	protected.Put("/classes/:id", classes.UpdateClasseHandler())
	protected.Delete("/classes/:id", classes.DeleteClasseHandler())

	// Élèves
	protected.Post("/eleves", students.CreateEleveHandler())
	protected.Get("/eleves", students.ListElevesHandler())
	protected.Get("/eleves/:id", students.GetEleveHandler())
	protected.Put("/eleves/:id", students.UpdateEleveHandler())
	protected.Put("/eleves/:id/statut", students.ChangeStatutHandler())

	// Configuration des frais & tranches
	protected.Post("/configurations-frais", fees.CreateConfigurationHandler())
	protected.Get("/configurations-frais", fees.ListConfigurationsHandler())
	protected.Put("/configurations-frais/:id", fees.UpdateConfigurationHandler())
	protected.Post("/configurations-frais/:id/tranches", fees.CreateTrancheHandler())
	protected.Get("/tranches", fees.ListTranchesHandler())
	protected.Delete("/tranches/:id", fees.DeleteTrancheHandler())

	// Paiements des frais
	protected.Post("/paiements", payments.CreatePaiementHandler())
	protected.Get("/paiements", payments.ListPaiementsHandler())
	protected.Put("/paiements/:id", payments.UpdatePaiementHandler())
	protected.Delete("/paiements/:id", payments.DeletePaiementHandler())

	// Recouvrement
	protected.Get("/recouvrement", recovery.PageHandler())
	protected.Post("/recouvrement/export", recovery.ExportHandler(cfg))

	// Professeurs
	protected.Post("/professeurs", professors.CreateProfesseurHandler())
	protected.Get("/professeurs", professors.ListProfesseursHandler())
	protected.Get("/professeurs/:id", professors.GetProfesseurHandler())
	protected.Put("/professeurs/:id", professors.UpdateProfesseurHandler())

	// Salaires
	protected.Post("/salaires/configurations", payroll.CreateSalaireConfigHandler())
	protected.Get("/salaires/configurations", payroll.ListSalaireConfigsHandler())
	protected.Put("/salaires/configurations/:id/desactiver", payroll.DeactivateSalaireConfigHandler())
	protected.Get("/salaires/calcul", payroll.AutoCalculHandler())

	// Avances sur salaires
	protected.Post("/avances", payroll.CreateAvanceHandler())
	protected.Get("/avances", payroll.ListAvancesHandler())
	protected.Put("/avances/:id/statut", payroll.ChangeAvanceStatutHandler())

	// Pointages
	protected.Post("/presences/arrivee", payroll.CheckInHandler())
	protected.Put("/presences/:id/depart", payroll.CheckOutHandler())
	protected.Get("/presences", payroll.ListPresencesHandler())

	// Paiements de salaires
	protected.Post("/paiements-salaires", payroll.CreatePaiementSalaireHandler())
	protected.Get("/paiements-salaires", payroll.ListPaiementsSalairesHandler())
	protected.Put("/paiements-salaires/:id/payer", payroll.MarkPaiementSalairePayeHandler())

	// Dépenses & budgets
	protected.Get("/categories-depenses", expense.ListCategoriesHandler())
	protected.Post("/depenses", expense.CreateDepenseHandler())
	protected.Get("/depenses", expense.ListDepensesHandler())
	protected.Get("/depenses/summary/monthly", expense.MonthlySummaryHandler())
	protected.Get("/budgets", expense.ListBudgetsHandler())

	// Dashboard
	protected.Get("/dashboard/stats", dashboard.StatsHandler())
	protected.Get("/dashboard/finances", dashboard.FinancesMensuellesHandler())

	// Historique
	protected.Get("/historique", audit.ListHistoriqueHandler())

	log.Println("Serveur démarré port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
