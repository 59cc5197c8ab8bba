package payroll

import (
	"fmt"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSalaireConfigRequest struct {
	ProfesseurID uint     `json:"professeur_id"`
	TypeSalaire  string   `json:"type_salaire"` // horaire | mensuel
	TauxHoraire  *float64 `json:"taux_horaire"`
	SalaireFixe  *float64 `json:"salaire_fixe"`
}

type SalaireConfigResponse struct {
	ID           uint     `json:"id"`
	ProfesseurID uint     `json:"professeur_id"`
	Professeur   string   `json:"professeur"`
	TypeSalaire  string   `json:"type_salaire"`
	TauxHoraire  *float64 `json:"taux_horaire"`
	SalaireFixe  *float64 `json:"salaire_fixe"`
	Actif        bool     `json:"actif"`
}

func toSalaireConfigResponse(s models.ProfSalaire) SalaireConfigResponse {
	return SalaireConfigResponse{
		ID:           s.ID,
		ProfesseurID: s.ProfesseurID,
		Professeur:   s.Professeur.NomComplet(),
		TypeSalaire:  string(s.TypeSalaire),
		TauxHoraire:  s.TauxHoraire,
		SalaireFixe:  s.SalaireFixe,
		Actif:        s.Actif,
	}
}

// activeConfig - configuration salariale active d'un professeur, ou erreur
// gorm.ErrRecordNotFound.
func activeConfig(professeurID uint) (models.ProfSalaire, error) {
	var cfg models.ProfSalaire
	err := database.DB.Preload("Professeur").
		Where("professeur_id = ? AND actif = ?", professeurID, true).
		First(&cfg).Error
	return cfg, err
}

// POST /api/salaires/configurations
// Une seule configuration active par professeur: la nouvelle désactive
// l'ancienne dans la même transaction.
func CreateSalaireConfigHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSalaireConfigRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.ProfesseurID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "professeur_id obligatoire")
		}
		typ := models.TypeSalaire(body.TypeSalaire)
		if !typ.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "type_salaire doit être horaire ou mensuel")
		}
		if typ == models.SalaireHoraire && (body.TauxHoraire == nil || *body.TauxHoraire <= 0) {
			return fiber.NewError(fiber.StatusBadRequest, "taux_horaire > 0 obligatoire pour un salaire horaire")
		}
		if typ == models.SalaireMensuel && (body.SalaireFixe == nil || *body.SalaireFixe <= 0) {
			return fiber.NewError(fiber.StatusBadRequest, "salaire_fixe > 0 obligatoire pour un salaire mensuel")
		}

		var prof models.Professeur
		if err := database.DB.First(&prof, "id = ?", body.ProfesseurID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Professeur introuvable")
		}

		cfg := models.ProfSalaire{
			ProfesseurID: body.ProfesseurID,
			TypeSalaire:  typ,
			Actif:        true,
		}
		if typ == models.SalaireHoraire {
			cfg.TauxHoraire = body.TauxHoraire
		} else {
			cfg.SalaireFixe = body.SalaireFixe
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.ProfSalaire{}).
				Where("professeur_id = ? AND actif = ?", body.ProfesseurID, true).
				Update("actif", false).Error; err != nil {
				return err
			}
			return tx.Create(&cfg).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Configuration non créée")
		}

		cfg.Professeur = prof
		return c.Status(fiber.StatusCreated).JSON(toSalaireConfigResponse(cfg))
	}
}

// GET /api/salaires/configurations?professeur_id=&actif=true
func ListSalaireConfigsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ProfSalaire{}).Preload("Professeur")

		if s := c.Query("professeur_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "professeur_id invalide")
			}
			dbq = dbq.Where("professeur_id = ?", id)
		}
		if c.Query("actif") == "true" {
			dbq = dbq.Where("actif = ?", true)
		}

		var rows []models.ProfSalaire
		if err := dbq.Order("professeur_id asc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Configurations non listées")
		}

		resp := make([]SalaireConfigResponse, 0, len(rows))
		for _, s := range rows {
			resp = append(resp, toSalaireConfigResponse(s))
		}
		return c.JSON(resp)
	}
}

// PUT /api/salaires/configurations/:id/desactiver
func DeactivateSalaireConfigHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cfg models.ProfSalaire
		if err := database.DB.First(&cfg, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Configuration introuvable")
		}

		cfg.Actif = false
		if err := database.DB.Save(&cfg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Configuration non désactivée")
		}
		return c.JSON(fiber.Map{"id": cfg.ID, "actif": cfg.Actif})
	}
}
