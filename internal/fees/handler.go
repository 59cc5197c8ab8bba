package fees

import (
	"fmt"
	"strings"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateConfigurationRequest struct {
	Nom           string  `json:"nom"`
	AnneeScolaire string  `json:"annee_scolaire"`
	MontantTotal  float64 `json:"montant_total"`
}

type UpdateConfigurationRequest struct {
	Nom           *string  `json:"nom"`
	AnneeScolaire *string  `json:"annee_scolaire"`
	MontantTotal  *float64 `json:"montant_total"`
	Actif         *bool    `json:"actif"`
}

type CreateTrancheRequest struct {
	Nom        string  `json:"nom"`
	Montant    float64 `json:"montant"`
	DateLimite string  `json:"date_limite"` // AAAA-MM-JJ
	Ordre      int     `json:"ordre"`
}

type TrancheResponse struct {
	ID                   uint    `json:"id"`
	ConfigurationFraisID uint    `json:"configuration_frais_id"`
	Nom                  string  `json:"nom"`
	Montant              float64 `json:"montant"`
	DateLimite           string  `json:"date_limite"`
	Ordre                int     `json:"ordre"`
}

type ConfigurationResponse struct {
	ID            uint              `json:"id"`
	Nom           string            `json:"nom"`
	AnneeScolaire string            `json:"annee_scolaire"`
	MontantTotal  float64           `json:"montant_total"`
	Actif         bool              `json:"actif"`
	Tranches      []TrancheResponse `json:"tranches"`
}

func toTrancheResponse(t models.Tranche) TrancheResponse {
	return TrancheResponse{
		ID:                   t.ID,
		ConfigurationFraisID: t.ConfigurationFraisID,
		Nom:                  t.Nom,
		Montant:              t.Montant,
		DateLimite:           t.DateLimite.Format("2006-01-02"),
		Ordre:                t.Ordre,
	}
}

func toConfigurationResponse(cf models.ConfigurationFrais) ConfigurationResponse {
	resp := ConfigurationResponse{
		ID:            cf.ID,
		Nom:           cf.Nom,
		AnneeScolaire: cf.AnneeScolaire,
		MontantTotal:  cf.MontantTotal,
		Actif:         cf.Actif,
		Tranches:      make([]TrancheResponse, 0, len(cf.Tranches)),
	}
	for _, t := range cf.Tranches {
		resp.Tranches = append(resp.Tranches, toTrancheResponse(t))
	}
	return resp
}

// POST /api/configurations-frais
func CreateConfigurationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateConfigurationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" || body.AnneeScolaire == "" {
			return fiber.NewError(fiber.StatusBadRequest, "nom et annee_scolaire obligatoires")
		}
		if body.MontantTotal < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "montant_total doit être >= 0")
		}

		cf := models.ConfigurationFrais{
			Nom:           body.Nom,
			AnneeScolaire: body.AnneeScolaire,
			MontantTotal:  body.MontantTotal,
			Actif:         true,
		}
		if err := database.DB.Create(&cf).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Configuration non créée")
		}

		return c.Status(fiber.StatusCreated).JSON(toConfigurationResponse(cf))
	}
}

// GET /api/configurations-frais?actif=true
func ListConfigurationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ConfigurationFrais{}).
			Preload("Tranches", func(db *gorm.DB) *gorm.DB { return db.Order("ordre asc") })

		if c.Query("actif") == "true" {
			dbq = dbq.Where("actif = ?", true)
		}

		var rows []models.ConfigurationFrais
		if err := dbq.Order("annee_scolaire desc, nom asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Configurations non listées")
		}

		resp := make([]ConfigurationResponse, 0, len(rows))
		for _, cf := range rows {
			resp = append(resp, toConfigurationResponse(cf))
		}
		return c.JSON(resp)
	}
}

// PUT /api/configurations-frais/:id
func UpdateConfigurationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cf models.ConfigurationFrais
		if err := database.DB.Preload("Tranches").First(&cf, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Configuration introuvable")
		}

		var body UpdateConfigurationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "nom ne peut pas être vide")
			}
			cf.Nom = nom
		}
		if body.AnneeScolaire != nil {
			cf.AnneeScolaire = *body.AnneeScolaire
		}
		if body.MontantTotal != nil {
			if *body.MontantTotal < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "montant_total doit être >= 0")
			}
			cf.MontantTotal = *body.MontantTotal
		}
		if body.Actif != nil {
			cf.Actif = *body.Actif
		}

		if err := database.DB.Save(&cf).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Configuration non mise à jour")
		}
		return c.JSON(toConfigurationResponse(cf))
	}
}

// POST /api/configurations-frais/:id/tranches
func CreateTrancheHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cf models.ConfigurationFrais
		if err := database.DB.First(&cf, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Configuration introuvable")
		}

		var body CreateTrancheRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" || body.Montant <= 0 || body.Ordre <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "nom, montant > 0 et ordre > 0 obligatoires")
		}

		dl, err := time.Parse("2006-01-02", body.DateLimite)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_limite invalide (AAAA-MM-JJ)")
		}

		// ordre unique au sein de la configuration
		var dup int64
		database.DB.Model(&models.Tranche{}).
			Where("configuration_frais_id = ? AND ordre = ?", cf.ID, body.Ordre).
			Count(&dup)
		if dup > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("L'ordre %d existe déjà dans cette configuration", body.Ordre))
		}

		tranche := models.Tranche{
			ConfigurationFraisID: cf.ID,
			Nom:                  body.Nom,
			Montant:              body.Montant,
			DateLimite:           dl,
			Ordre:                body.Ordre,
		}
		if err := database.DB.Create(&tranche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tranche non créée")
		}

		return c.Status(fiber.StatusCreated).JSON(toTrancheResponse(tranche))
	}
}

// GET /api/tranches - toutes configurations actives confondues
func ListTranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []models.Tranche
		if err := database.DB.
			Joins("JOIN configuration_frais ON configuration_frais.id = tranches.configuration_frais_id").
			Where("configuration_frais.actif = ?", true).
			Order("tranches.configuration_frais_id asc, tranches.ordre asc").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tranches non listées")
		}

		resp := make([]TrancheResponse, 0, len(rows))
		for _, t := range rows {
			resp = append(resp, toTrancheResponse(t))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/tranches/:id - refusé si des paiements y sont liés
func DeleteTrancheHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var nb int64
		database.DB.Model(&models.Paiement{}).Where("tranche_id = ?", id).Count(&nb)
		if nb > 0 {
			return fiber.NewError(fiber.StatusConflict, "Des paiements sont liés à cette tranche")
		}

		if err := database.DB.Delete(&models.Tranche{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tranche non supprimée")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
