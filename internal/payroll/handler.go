package payroll

import (
	"errors"
	"fmt"
	"time"

	"ecole-backend/internal/auth"
	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CalculResponse struct {
	SalaireBase       float64 `json:"salaire_base"`
	AvancesDeduites   float64 `json:"avances_deduites"`
	HeuresTravaillees float64 `json:"heures_travaillees"`
	NetAPayer         float64 `json:"net_a_payer"`
	PeriodeLabel      string  `json:"periode_label"`
}

type CreatePaiementSalaireRequest struct {
	ProfesseurID uint     `json:"professeur_id" validate:"required"`
	TypePaiement string   `json:"type_paiement" validate:"required"`
	Periode      string   `json:"periode"`   // normal uniquement
	Montant      *float64 `json:"montant"`   // avance / regularisation
	AvanceID     *uint    `json:"avance_id"` // avance uniquement
	Retenues     float64  `json:"retenues"`
	Heures       *float64 `json:"heures"` // forçage manuel, salaire horaire
	DatePaiement string   `json:"date_paiement" validate:"required"`
	Statut       string   `json:"statut"`
}

type PaiementSalaireResponse struct {
	ID              uint    `json:"id"`
	ProfesseurID    uint    `json:"professeur_id"`
	Professeur      string  `json:"professeur"`
	TypePaiement    string  `json:"type_paiement"`
	Periode         string  `json:"periode,omitempty"`
	PeriodeLabel    string  `json:"periode_label,omitempty"`
	SalaireBase     float64 `json:"salaire_base"`
	AvancesDeduites float64 `json:"avances_deduites"`
	NetAPayer       float64 `json:"net_a_payer"`
	Retenues        float64 `json:"retenues"`
	AvanceID        *uint   `json:"avance_id,omitempty"`
	DatePaiement    string  `json:"date_paiement"`
	Statut          string  `json:"statut"`
}

func toPaiementSalaireResponse(p models.PaiementSalaire) PaiementSalaireResponse {
	// le net est recalculé à l'affichage, même clampage que la paie
	net := NetAPayer(p.SalaireBase, p.AvancesDeduites)
	resp := PaiementSalaireResponse{
		ID:              p.ID,
		ProfesseurID:    p.ProfesseurID,
		Professeur:      p.Professeur.NomComplet(),
		TypePaiement:    string(p.TypePaiement),
		Periode:         p.Periode,
		SalaireBase:     p.SalaireBase,
		AvancesDeduites: p.AvancesDeduites,
		NetAPayer:       net,
		Retenues:        p.Retenues,
		AvanceID:        p.AvanceID,
		DatePaiement:    p.DatePaiement.Format("2006-01-02"),
		Statut:          string(p.Statut),
	}
	if p.Periode != "" {
		resp.PeriodeLabel = PeriodeLabel(p.Periode)
	}
	return resp
}

// heuresDuMois - heures prestées du professeur sur le mois, pointages
// avec arrivée uniquement.
func heuresDuMois(professeurID uint, debut, fin time.Time) (float64, error) {
	var presences []models.Presence
	if err := database.DB.
		Where("professeur_id = ? AND date >= ? AND date < ?", professeurID, debut, fin).
		Find(&presences).Error; err != nil {
		return 0, err
	}
	return SommeHeures(presences, debut, fin), nil
}

// avancesDuMois - avances payées du professeur sur le mois.
func avancesDuMois(professeurID uint, debut, fin time.Time) (float64, error) {
	var avances []models.AvanceSalaire
	if err := database.DB.
		Where("professeur_id = ? AND date_avance >= ? AND date_avance < ?", professeurID, debut, fin).
		Find(&avances).Error; err != nil {
		return 0, err
	}
	return SommeAvances(avances, debut, fin), nil
}

// calculPourPeriode - déroule le calcul complet pour un professeur et une
// période, heures forcées ou non.
func calculPourPeriode(professeurID uint, periode string, heuresOverride *float64) (Calcul, error) {
	debut, fin, err := ParsePeriode(periode)
	if err != nil {
		return Calcul{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var cfgPtr *models.ProfSalaire
	cfg, err := activeConfig(professeurID)
	switch {
	case err == nil:
		cfgPtr = &cfg
	case errors.Is(err, gorm.ErrRecordNotFound):
		// cfgPtr reste nil, la précondition tombe dans le calcul
	default:
		return Calcul{}, fiber.NewError(fiber.StatusInternalServerError, "Configuration non chargée")
	}

	var heures, avances float64
	if cfgPtr != nil {
		if cfgPtr.TypeSalaire == models.SalaireHoraire {
			if heuresOverride != nil {
				heures = *heuresOverride
			} else {
				heures, err = heuresDuMois(professeurID, debut, fin)
				if err != nil {
					return Calcul{}, fiber.NewError(fiber.StatusInternalServerError, "Pointages non chargés")
				}
			}
		}
		avances, err = avancesDuMois(professeurID, debut, fin)
		if err != nil {
			return Calcul{}, fiber.NewError(fiber.StatusInternalServerError, "Avances non chargées")
		}
	}

	calcul, err := ComputePaiePourConfig(cfgPtr, heures, avances)
	if errors.Is(err, ErrSansConfiguration) {
		return Calcul{}, fiber.NewError(fiber.StatusNotFound,
			"Aucune configuration salariale active pour ce professeur")
	}
	return calcul, nil
}

// GET /api/salaires/calcul?professeur_id=&periode=AAAA-MM[&heures=]
func AutoCalculHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var professeurID uint
		if _, err := fmt.Sscan(c.Query("professeur_id"), &professeurID); err != nil || professeurID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "professeur_id invalide")
		}
		periode := c.Query("periode")
		if periode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "periode obligatoire (AAAA-MM)")
		}

		var heuresOverride *float64
		if s := c.Query("heures"); s != "" {
			var h float64
			if _, err := fmt.Sscan(s, &h); err != nil || h < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "heures invalide")
			}
			heuresOverride = &h
		}

		calcul, err := calculPourPeriode(professeurID, periode, heuresOverride)
		if err != nil {
			return err
		}

		return c.JSON(CalculResponse{
			SalaireBase:       calcul.SalaireBase,
			AvancesDeduites:   calcul.AvancesDeduites,
			HeuresTravaillees: calcul.HeuresTravaillees,
			NetAPayer:         calcul.NetAPayer,
			PeriodeLabel:      PeriodeLabel(periode),
		})
	}
}

// POST /api/paiements-salaires
func CreatePaiementSalaireHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaiementSalaireRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Champs invalides: "+err.Error())
		}

		typ := models.TypePaiementSalaire(body.TypePaiement)
		if !typ.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "type_paiement invalide")
		}
		if body.Retenues < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "retenues doit être >= 0")
		}

		var prof models.Professeur
		if err := database.DB.First(&prof, "id = ?", body.ProfesseurID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Professeur introuvable")
		}

		datePaiement, err := time.Parse("2006-01-02", body.DatePaiement)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_paiement invalide (AAAA-MM-JJ)")
		}

		statut := models.PaiementSalaireEnAttente
		if body.Statut != "" {
			if body.Statut != string(models.PaiementSalaireEnAttente) &&
				body.Statut != string(models.PaiementSalairePaye) {
				return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
			}
			statut = models.PaiementSalaireStatut(body.Statut)
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		p := models.PaiementSalaire{
			ProfesseurID: body.ProfesseurID,
			TypePaiement: typ,
			Retenues:     body.Retenues,
			DatePaiement: datePaiement,
			Statut:       statut,
			UserID:       userID,
		}

		switch typ {
		case models.PaiementSalaireNormal:
			if body.Periode == "" {
				return fiber.NewError(fiber.StatusBadRequest, "periode obligatoire pour un paiement normal")
			}
			calcul, err := calculPourPeriode(body.ProfesseurID, body.Periode, body.Heures)
			if err != nil {
				return err
			}
			p.Periode = body.Periode
			p.SalaireBase = calcul.SalaireBase
			p.AvancesDeduites = calcul.AvancesDeduites

		case models.PaiementSalaireAvance:
			if body.Montant == nil || *body.Montant <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "montant > 0 obligatoire pour une avance")
			}
			p.SalaireBase = *body.Montant
			if body.AvanceID != nil {
				var avance models.AvanceSalaire
				if err := database.DB.
					Where("id = ? AND professeur_id = ?", *body.AvanceID, body.ProfesseurID).
					First(&avance).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Avance introuvable pour ce professeur")
				}
				p.AvanceID = body.AvanceID
			}

		case models.PaiementSalaireRegularisation:
			if body.Montant == nil || *body.Montant <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "montant > 0 obligatoire pour une régularisation")
			}
			p.SalaireBase = *body.Montant
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Paiement de salaire non enregistré")
		}

		p.Professeur = prof
		return c.Status(fiber.StatusCreated).JSON(toPaiementSalaireResponse(p))
	}
}

// GET /api/paiements-salaires?professeur_id=&periode=&type=
func ListPaiementsSalairesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.PaiementSalaire{}).Preload("Professeur")

		if s := c.Query("professeur_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "professeur_id invalide")
			}
			dbq = dbq.Where("professeur_id = ?", id)
		}
		if s := c.Query("periode"); s != "" {
			dbq = dbq.Where("periode = ?", s)
		}
		if s := c.Query("type"); s != "" {
			if !models.TypePaiementSalaire(s).Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "type invalide")
			}
			dbq = dbq.Where("type_paiement = ?", s)
		}

		var rows []models.PaiementSalaire
		if err := dbq.Order("date_paiement desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Paiements non listés")
		}

		resp := make([]PaiementSalaireResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, toPaiementSalaireResponse(p))
		}
		return c.JSON(resp)
	}
}

// PUT /api/paiements-salaires/:id/payer - marque le versement effectué
func MarkPaiementSalairePayeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.PaiementSalaire
		if err := database.DB.Preload("Professeur").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Paiement introuvable")
		}
		if p.Statut == models.PaiementSalairePaye {
			return fiber.NewError(fiber.StatusConflict, "Paiement déjà marqué payé")
		}

		p.Statut = models.PaiementSalairePaye
		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Statut non modifié")
		}
		return c.JSON(toPaiementSalaireResponse(p))
	}
}
