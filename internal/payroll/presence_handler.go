package payroll

import (
	"fmt"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CheckInRequest struct {
	ProfesseurID uint   `json:"professeur_id"`
	Date         string `json:"date"`          // AAAA-MM-JJ, défaut aujourd'hui
	HeureArrivee string `json:"heure_arrivee"` // HH:MM, défaut maintenant
}

type CheckOutRequest struct {
	HeureDepart string `json:"heure_depart"` // HH:MM, défaut maintenant
}

type PresenceResponse struct {
	ID             uint    `json:"id"`
	ProfesseurID   uint    `json:"professeur_id"`
	Professeur     string  `json:"professeur"`
	Date           string  `json:"date"`
	HeureArrivee   string  `json:"heure_arrivee,omitempty"`
	HeureDepart    string  `json:"heure_depart,omitempty"`
	HeuresPrestees float64 `json:"heures_prestees"`
}

func toPresenceResponse(p models.Presence) PresenceResponse {
	resp := PresenceResponse{
		ID:             p.ID,
		ProfesseurID:   p.ProfesseurID,
		Professeur:     p.Professeur.NomComplet(),
		Date:           p.Date.Format("2006-01-02"),
		HeuresPrestees: p.HeuresPrestees,
	}
	if p.HeureArrivee != nil {
		resp.HeureArrivee = p.HeureArrivee.Format("15:04")
	}
	if p.HeureDepart != nil {
		resp.HeureDepart = p.HeureDepart.Format("15:04")
	}
	return resp
}

// parseHeure - "HH:MM" posé sur le jour donné.
func parseHeure(jour time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(jour.Year(), jour.Month(), jour.Day(),
		t.Hour(), t.Minute(), 0, 0, jour.Location()), nil
}

// POST /api/presences/arrivee
func CheckInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CheckInRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.ProfesseurID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "professeur_id obligatoire")
		}

		var prof models.Professeur
		if err := database.DB.First(&prof, "id = ?", body.ProfesseurID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Professeur introuvable")
		}

		now := time.Now()
		jour := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date invalide (AAAA-MM-JJ)")
			}
			jour = d
		}

		arrivee := now
		if body.HeureArrivee != "" {
			h, err := parseHeure(jour, body.HeureArrivee)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "heure_arrivee invalide (HH:MM)")
			}
			arrivee = h
		}

		// un pointage par professeur et par jour (index unique en base)
		var existing models.Presence
		if err := database.DB.
			Where("professeur_id = ? AND date = ?", body.ProfesseurID, jour).
			First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Pointage déjà enregistré pour ce jour")
		}

		p := models.Presence{
			ProfesseurID: body.ProfesseurID,
			Date:         jour,
			HeureArrivee: &arrivee,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pointage non enregistré")
		}

		p.Professeur = prof
		return c.Status(fiber.StatusCreated).JSON(toPresenceResponse(p))
	}
}

// PUT /api/presences/:id/depart
func CheckOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Presence
		if err := database.DB.Preload("Professeur").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pointage introuvable")
		}
		if p.HeureArrivee == nil {
			return fiber.NewError(fiber.StatusConflict, "Pas d'heure d'arrivée sur ce pointage")
		}

		var body CheckOutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		depart := time.Now()
		if body.HeureDepart != "" {
			h, err := parseHeure(p.Date, body.HeureDepart)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "heure_depart invalide (HH:MM)")
			}
			depart = h
		}
		if !depart.After(*p.HeureArrivee) {
			return fiber.NewError(fiber.StatusBadRequest, "heure_depart doit être après l'arrivée")
		}

		p.HeureDepart = &depart
		p.HeuresPrestees = HeuresPrestees(*p.HeureArrivee, depart)

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pointage non mis à jour")
		}
		return c.JSON(toPresenceResponse(p))
	}
}

// GET /api/presences?professeur_id=&periode=AAAA-MM
func ListPresencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Presence{}).Preload("Professeur")

		if s := c.Query("professeur_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "professeur_id invalide")
			}
			dbq = dbq.Where("professeur_id = ?", id)
		}
		if s := c.Query("periode"); s != "" {
			debut, fin, err := ParsePeriode(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			dbq = dbq.Where("date >= ? AND date < ?", debut, fin)
		}

		var rows []models.Presence
		if err := dbq.Order("date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pointages non listés")
		}

		resp := make([]PresenceResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, toPresenceResponse(p))
		}
		return c.JSON(resp)
	}
}
