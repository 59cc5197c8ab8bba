package payroll

import (
	"fmt"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAvanceRequest struct {
	ProfesseurID uint    `json:"professeur_id"`
	Montant      float64 `json:"montant"`
	DateAvance   string  `json:"date_avance"` // AAAA-MM-JJ
	Motif        string  `json:"motif"`
}

type ChangeAvanceStatutRequest struct {
	Statut string `json:"statut"`
}

type AvanceResponse struct {
	ID           uint    `json:"id"`
	ProfesseurID uint    `json:"professeur_id"`
	Professeur   string  `json:"professeur"`
	Montant      float64 `json:"montant"`
	DateAvance   string  `json:"date_avance"`
	Statut       string  `json:"statut"`
	Motif        string  `json:"motif"`
}

func toAvanceResponse(a models.AvanceSalaire) AvanceResponse {
	return AvanceResponse{
		ID:           a.ID,
		ProfesseurID: a.ProfesseurID,
		Professeur:   a.Professeur.NomComplet(),
		Montant:      a.Montant,
		DateAvance:   a.DateAvance.Format("2006-01-02"),
		Statut:       string(a.Statut),
		Motif:        a.Motif,
	}
}

// transitions autorisées: demandee -> approuvee -> payee -> deduite
var avanceTransitions = map[models.AvanceStatut]models.AvanceStatut{
	models.AvanceDemandee:  models.AvanceApprouvee,
	models.AvanceApprouvee: models.AvancePayee,
	models.AvancePayee:     models.AvanceDeduite,
}

// POST /api/avances
func CreateAvanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAvanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.ProfesseurID == 0 || body.Montant <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "professeur_id et montant > 0 obligatoires")
		}

		var prof models.Professeur
		if err := database.DB.First(&prof, "id = ?", body.ProfesseurID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Professeur introuvable")
		}

		d, err := time.Parse("2006-01-02", body.DateAvance)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_avance invalide (AAAA-MM-JJ)")
		}

		a := models.AvanceSalaire{
			ProfesseurID: body.ProfesseurID,
			Montant:      body.Montant,
			DateAvance:   d,
			Statut:       models.AvanceDemandee,
			Motif:        body.Motif,
		}
		if err := database.DB.Create(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Avance non créée")
		}

		a.Professeur = prof
		return c.Status(fiber.StatusCreated).JSON(toAvanceResponse(a))
	}
}

// GET /api/avances?professeur_id=&statut=
func ListAvancesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AvanceSalaire{}).Preload("Professeur")

		if s := c.Query("professeur_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "professeur_id invalide")
			}
			dbq = dbq.Where("professeur_id = ?", id)
		}
		if s := c.Query("statut"); s != "" {
			if !models.AvanceStatut(s).Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
			}
			dbq = dbq.Where("statut = ?", s)
		}

		var rows []models.AvanceSalaire
		if err := dbq.Order("date_avance desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Avances non listées")
		}

		resp := make([]AvanceResponse, 0, len(rows))
		for _, a := range rows {
			resp = append(resp, toAvanceResponse(a))
		}
		return c.JSON(resp)
	}
}

// PUT /api/avances/:id/statut - avance d'un cran dans le cycle de vie
func ChangeAvanceStatutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var a models.AvanceSalaire
		if err := database.DB.Preload("Professeur").First(&a, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Avance introuvable")
		}

		var body ChangeAvanceStatutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		cible := models.AvanceStatut(body.Statut)
		if !cible.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
		}
		if avanceTransitions[a.Statut] != cible {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Transition %s -> %s non autorisée", a.Statut, cible))
		}

		a.Statut = cible
		if err := database.DB.Save(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Statut non modifié")
		}
		return c.JSON(toAvanceResponse(a))
	}
}
