package payments

import (
	"fmt"
	"strings"
	"time"

	"ecole-backend/internal/audit"
	"ecole-backend/internal/auth"
	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreatePaiementRequest struct {
	EleveID      *uint   `json:"eleve_id"`
	TrancheID    *uint   `json:"tranche_id"`
	Montant      float64 `json:"montant" validate:"required,gt=0"`
	ModePaiement string  `json:"mode_paiement" validate:"required"`
	DatePaiement string  `json:"date_paiement" validate:"required"` // AAAA-MM-JJ
	Commentaire  string  `json:"commentaire" validate:"max=255"`
}

type UpdatePaiementRequest struct {
	Montant      *float64 `json:"montant"`
	ModePaiement *string  `json:"mode_paiement"`
	DatePaiement *string  `json:"date_paiement"`
	Commentaire  *string  `json:"commentaire"`
}

type PaiementResponse struct {
	ID           uint    `json:"id"`
	NumeroRecu   string  `json:"numero_recu"`
	EleveID      *uint   `json:"eleve_id"`
	Eleve        string  `json:"eleve,omitempty"`
	TrancheID    *uint   `json:"tranche_id"`
	Tranche      string  `json:"tranche,omitempty"`
	Montant      float64 `json:"montant"`
	ModePaiement string  `json:"mode_paiement"`
	DatePaiement string  `json:"date_paiement"`
	Commentaire  string  `json:"commentaire"`
	Caissier     string  `json:"caissier"`
}

func toPaiementResponse(p models.Paiement) PaiementResponse {
	resp := PaiementResponse{
		ID:           p.ID,
		NumeroRecu:   p.NumeroRecu,
		EleveID:      p.EleveID,
		TrancheID:    p.TrancheID,
		Montant:      p.Montant,
		ModePaiement: string(p.ModePaiement),
		DatePaiement: p.DatePaiement.Format("2006-01-02"),
		Commentaire:  p.Commentaire,
		Caissier:     p.User.Name,
	}
	if p.Eleve != nil {
		resp.Eleve = p.Eleve.NomComplet()
	}
	if p.Tranche != nil {
		resp.Tranche = p.Tranche.Nom
	}
	return resp
}

// numeroRecu - "REC-" + 8 premiers caractères d'un UUID, suffisant
// pour un numéro lisible sur le reçu imprimé.
func numeroRecu() string {
	return "REC-" + strings.ToUpper(uuid.NewString()[:8])
}

// POST /api/paiements
func CreatePaiementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaiementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Champs invalides: "+err.Error())
		}

		mode := models.ModePaiement(body.ModePaiement)
		if !mode.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "mode_paiement invalide")
		}

		d, err := time.Parse("2006-01-02", body.DatePaiement)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_paiement invalide (AAAA-MM-JJ)")
		}

		if body.EleveID != nil {
			var eleve models.Eleve
			if err := database.DB.First(&eleve, "id = ?", *body.EleveID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Élève introuvable")
			}
		}
		if body.TrancheID != nil {
			var tranche models.Tranche
			if err := database.DB.First(&tranche, "id = ?", *body.TrancheID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tranche introuvable")
			}
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		p := models.Paiement{
			NumeroRecu:   numeroRecu(),
			EleveID:      body.EleveID,
			TrancheID:    body.TrancheID,
			Montant:      body.Montant,
			ModePaiement: mode,
			DatePaiement: d,
			Commentaire:  body.Commentaire,
			UserID:       userID,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Paiement non enregistré")
		}

		database.DB.Preload("Eleve").Preload("Tranche").Preload("User").First(&p, p.ID)
		return c.Status(fiber.StatusCreated).JSON(toPaiementResponse(p))
	}
}

// GET /api/paiements?eleve_id=&tranche_id=&from=&to=&mode=
func ListPaiementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Paiement{}).
			Preload("Eleve").Preload("Tranche").Preload("User")

		if s := c.Query("eleve_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "eleve_id invalide")
			}
			dbq = dbq.Where("eleve_id = ?", id)
		}
		if s := c.Query("tranche_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "tranche_id invalide")
			}
			dbq = dbq.Where("tranche_id = ?", id)
		}
		if s := c.Query("mode"); s != "" {
			if !models.ModePaiement(s).Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "mode invalide")
			}
			dbq = dbq.Where("mode_paiement = ?", s)
		}
		if s := c.Query("from"); s != "" {
			from, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from invalide")
			}
			dbq = dbq.Where("date_paiement >= ?", from)
		}
		if s := c.Query("to"); s != "" {
			to, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to invalide")
			}
			dbq = dbq.Where("date_paiement <= ?", to)
		}

		var rows []models.Paiement
		if err := dbq.Order("date_paiement desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Paiements non listés")
		}

		resp := make([]PaiementResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, toPaiementResponse(p))
		}
		return c.JSON(resp)
	}
}

// PUT /api/paiements/:id - correction explicite d'une saisie
func UpdatePaiementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Paiement
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Paiement introuvable")
		}

		var body UpdatePaiementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		avant := fiber.Map{
			"montant":       p.Montant,
			"mode_paiement": p.ModePaiement,
			"date_paiement": p.DatePaiement.Format("2006-01-02"),
			"commentaire":   p.Commentaire,
		}

		if body.Montant != nil {
			if *body.Montant <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "montant doit être > 0")
			}
			p.Montant = *body.Montant
		}
		if body.ModePaiement != nil {
			mode := models.ModePaiement(*body.ModePaiement)
			if !mode.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "mode_paiement invalide")
			}
			p.ModePaiement = mode
		}
		if body.DatePaiement != nil {
			d, err := time.Parse("2006-01-02", *body.DatePaiement)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_paiement invalide")
			}
			p.DatePaiement = d
		}
		if body.Commentaire != nil {
			p.Commentaire = *body.Commentaire
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Paiement non mis à jour")
		}

		if userID, err := auth.CurrentUserID(c); err == nil {
			var user models.User
			database.DB.First(&user, userID)
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    user.Name,
				EntityType:  "paiement",
				EntityID:    p.ID,
				Action:      models.ActionUpdate,
				Description: fmt.Sprintf("Paiement %s modifié", p.NumeroRecu),
				Before:      avant,
				After: fiber.Map{
					"montant":       p.Montant,
					"mode_paiement": p.ModePaiement,
					"date_paiement": p.DatePaiement.Format("2006-01-02"),
					"commentaire":   p.Commentaire,
				},
			}); logErr != nil {
				fmt.Printf("Historique non écrit: %v\n", logErr)
			}
		}

		database.DB.Preload("Eleve").Preload("Tranche").Preload("User").First(&p, p.ID)
		return c.JSON(toPaiementResponse(p))
	}
}

// DELETE /api/paiements/:id
// La suppression passe par l'historique AVANT le retrait, dans la même
// transaction: pas de paiement effacé sans trace.
func DeletePaiementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Paiement
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Paiement introuvable")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		var user models.User
		database.DB.First(&user, userID)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := audit.WriteLogTx(tx, audit.LogOptions{
				UserID:      userID,
				UserName:    user.Name,
				EntityType:  "paiement",
				EntityID:    p.ID,
				Action:      models.ActionDelete,
				Description: fmt.Sprintf("Paiement %s supprimé (%.2f)", p.NumeroRecu, p.Montant),
				Before: fiber.Map{
					"id":            p.ID,
					"numero_recu":   p.NumeroRecu,
					"eleve_id":      p.EleveID,
					"tranche_id":    p.TrancheID,
					"montant":       p.Montant,
					"mode_paiement": p.ModePaiement,
					"date_paiement": p.DatePaiement.Format("2006-01-02"),
				},
				After: nil,
			}); err != nil {
				return err
			}
			return tx.Delete(&models.Paiement{}, "id = ?", p.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Paiement non supprimé")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
