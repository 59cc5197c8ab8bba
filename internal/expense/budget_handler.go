package expense

import (
	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBudgetRequest struct {
	CategorieID   uint    `json:"categorie_id"`
	AnneeScolaire string  `json:"annee_scolaire"`
	MontantAlloue float64 `json:"montant_alloue"`
}

type BudgetResponse struct {
	ID            uint    `json:"id"`
	CategorieID   uint    `json:"categorie_id"`
	Categorie     string  `json:"categorie"`
	AnneeScolaire string  `json:"annee_scolaire"`
	MontantAlloue float64 `json:"montant_alloue"`
	Consomme      float64 `json:"consomme"`
	Disponible    float64 `json:"disponible"`
}

// POST /api/admin/budgets
func CreateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.CategorieID == 0 || body.AnneeScolaire == "" || body.MontantAlloue <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "categorie_id, annee_scolaire et montant_alloue > 0 obligatoires")
		}

		var cat models.CategorieDepense
		if err := database.DB.First(&cat, "id = ?", body.CategorieID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Catégorie introuvable")
		}

		var dup int64
		database.DB.Model(&models.Budget{}).
			Where("categorie_id = ? AND annee_scolaire = ?", body.CategorieID, body.AnneeScolaire).
			Count(&dup)
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict, "Un budget existe déjà pour cette catégorie et cette année")
		}

		b := models.Budget{
			CategorieID:   body.CategorieID,
			AnneeScolaire: body.AnneeScolaire,
			MontantAlloue: body.MontantAlloue,
		}
		if err := database.DB.Create(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budget non créé")
		}

		return c.Status(fiber.StatusCreated).JSON(BudgetResponse{
			ID:            b.ID,
			CategorieID:   b.CategorieID,
			Categorie:     cat.Nom,
			AnneeScolaire: b.AnneeScolaire,
			MontantAlloue: b.MontantAlloue,
			Disponible:    b.MontantAlloue,
		})
	}
}

// GET /api/budgets?annee=2025-2026
// Consommé = somme des dépenses de la catégorie sur l'année civile du
// budget (dépenses sans budget: simplement non rapprochées).
func ListBudgetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Budget{}).Preload("Categorie")
		if annee := c.Query("annee"); annee != "" {
			dbq = dbq.Where("annee_scolaire = ?", annee)
		}

		var rows []models.Budget
		if err := dbq.Order("annee_scolaire desc, categorie_id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budgets non listés")
		}

		resp := make([]BudgetResponse, 0, len(rows))
		for _, b := range rows {
			var consomme float64
			database.DB.Model(&models.Depense{}).
				Where("categorie_id = ?", b.CategorieID).
				Select("COALESCE(SUM(montant), 0)").
				Scan(&consomme)

			resp = append(resp, BudgetResponse{
				ID:            b.ID,
				CategorieID:   b.CategorieID,
				Categorie:     b.Categorie.Nom,
				AnneeScolaire: b.AnneeScolaire,
				MontantAlloue: b.MontantAlloue,
				Consomme:      consomme,
				Disponible:    b.MontantAlloue - consomme,
			})
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/budgets/:id
func DeleteBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Budget{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Budget non supprimé")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
