package classes

import (
	"strings"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateClasseRequest struct {
	Nom           string `json:"nom"`
	Niveau        string `json:"niveau"`
	Section       string `json:"section"`
	AnneeScolaire string `json:"annee_scolaire"`
}

type UpdateClasseRequest struct {
	Nom           *string `json:"nom"`
	Niveau        *string `json:"niveau"`
	Section       *string `json:"section"`
	AnneeScolaire *string `json:"annee_scolaire"`
}

type ClasseResponse struct {
	ID            uint   `json:"id"`
	Nom           string `json:"nom"`
	Niveau        string `json:"niveau"`
	Section       string `json:"section"`
	AnneeScolaire string `json:"annee_scolaire"`
	NbEleves      int64  `json:"nb_eleves"`
}

// POST /api/classes
func CreateClasseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClasseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "nom obligatoire")
		}

		classe := models.Classe{
			Nom:           body.Nom,
			Niveau:        body.Niveau,
			Section:       body.Section,
			AnneeScolaire: body.AnneeScolaire,
		}
		if err := database.DB.Create(&classe).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Classe non créée")
		}

		return c.Status(fiber.StatusCreated).JSON(ClasseResponse{
			ID:            classe.ID,
			Nom:           classe.Nom,
			Niveau:        classe.Niveau,
			Section:       classe.Section,
			AnneeScolaire: classe.AnneeScolaire,
		})
	}
}

// GET /api/classes?annee=2025-2026
func ListClassesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Classe{})
		if annee := c.Query("annee"); annee != "" {
			dbq = dbq.Where("annee_scolaire = ?", annee)
		}

		var rows []models.Classe
		if err := dbq.Order("niveau asc, nom asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Classes non listées")
		}

		resp := make([]ClasseResponse, 0, len(rows))
		for _, cl := range rows {
			var nb int64
			database.DB.Model(&models.Eleve{}).
				Where("classe_id = ? AND statut = ?", cl.ID, models.EleveActif).
				Count(&nb)
			resp = append(resp, ClasseResponse{
				ID:            cl.ID,
				Nom:           cl.Nom,
				Niveau:        cl.Niveau,
				Section:       cl.Section,
				AnneeScolaire: cl.AnneeScolaire,
				NbEleves:      nb,
			})
		}
		return c.JSON(resp)
	}
}

// PUT /api/classes/:id
func UpdateClasseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var classe models.Classe
		if err := database.DB.First(&classe, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Classe introuvable")
		}

		var body UpdateClasseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "nom ne peut pas être vide")
			}
			classe.Nom = nom
		}
		if body.Niveau != nil {
			classe.Niveau = *body.Niveau
		}
		if body.Section != nil {
			classe.Section = *body.Section
		}
		if body.AnneeScolaire != nil {
			classe.AnneeScolaire = *body.AnneeScolaire
		}

		if err := database.DB.Save(&classe).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Classe non mise à jour")
		}

		return c.JSON(ClasseResponse{
			ID:            classe.ID,
			Nom:           classe.Nom,
			Niveau:        classe.Niveau,
			Section:       classe.Section,
			AnneeScolaire: classe.AnneeScolaire,
		})
	}
}

// DELETE /api/classes/:id - refusé si la classe a encore des élèves
func DeleteClasseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var nb int64
		database.DB.Model(&models.Eleve{}).Where("classe_id = ?", id).Count(&nb)
		if nb > 0 {
			return fiber.NewError(fiber.StatusConflict, "La classe contient encore des élèves")
		}

		if err := database.DB.Delete(&models.Classe{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Classe non supprimée")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
