package dashboard

import (
	"fmt"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FinancesMensuellesResponse struct {
	Year             int                `json:"year"`
	Month            int                `json:"month"`
	RecettesParMode  map[string]float64 `json:"recettes_par_mode"`
	TotalRecettes    float64            `json:"total_recettes"`
	TotalDepenses    float64            `json:"total_depenses"`
	TotalSalaires    float64            `json:"total_salaires"`
	Solde            float64            `json:"solde"`
}

type StatsGeneralesResponse struct {
	ElevesActifs      int64 `json:"eleves_actifs"`
	Classes           int64 `json:"classes"`
	ProfesseursActifs int64 `json:"professeurs_actifs"`
	PaiementsDuJour   int64 `json:"paiements_du_jour"`
}

// GET /api/dashboard/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp StatsGeneralesResponse

		database.DB.Model(&models.Eleve{}).Where("statut = ?", models.EleveActif).Count(&resp.ElevesActifs)
		database.DB.Model(&models.Classe{}).Count(&resp.Classes)
		database.DB.Model(&models.Professeur{}).Where("actif = ?", true).Count(&resp.ProfesseursActifs)

		now := time.Now()
		jour := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		database.DB.Model(&models.Paiement{}).
			Where("date_paiement >= ? AND date_paiement < ?", jour, jour.AddDate(0, 0, 1)).
			Count(&resp.PaiementsDuJour)

		return c.JSON(resp)
	}
}

// GET /api/dashboard/finances?year=2026&month=1
// Recettes = frais encaissés, sorties = dépenses + salaires versés.
func FinancesMensuellesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var year, month int
		if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year invalide")
		}
		if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month invalide")
		}

		loc := time.Now().Location()
		debut := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		fin := debut.AddDate(0, 1, 0)

		resp := FinancesMensuellesResponse{
			Year:            year,
			Month:           month,
			RecettesParMode: make(map[string]float64),
		}

		type modeRow struct {
			Mode  string  `gorm:"column:mode_paiement"`
			Total float64 `gorm:"column:total"`
		}
		var modes []modeRow
		if err := database.DB.Model(&models.Paiement{}).
			Select("mode_paiement, SUM(montant) as total").
			Where("date_paiement >= ? AND date_paiement < ?", debut, fin).
			Group("mode_paiement").
			Scan(&modes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Recettes non calculées")
		}
		for _, m := range modes {
			resp.RecettesParMode[m.Mode] = m.Total
			resp.TotalRecettes += m.Total
		}

		if err := database.DB.Model(&models.Depense{}).
			Select("COALESCE(SUM(montant), 0)").
			Where("date >= ? AND date < ?", debut, fin).
			Scan(&resp.TotalDepenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dépenses non calculées")
		}

		// salaires effectivement versés dans le mois: base - avances déduites
		type salaireRow struct {
			Base    float64 `gorm:"column:base"`
			Avances float64 `gorm:"column:avances"`
		}
		var sr salaireRow
		if err := database.DB.Model(&models.PaiementSalaire{}).
			Select("COALESCE(SUM(salaire_base), 0) as base, COALESCE(SUM(avances_deduites), 0) as avances").
			Where("date_paiement >= ? AND date_paiement < ? AND statut = ?", debut, fin, models.PaiementSalairePaye).
			Scan(&sr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Salaires non calculés")
		}
		resp.TotalSalaires = sr.Base - sr.Avances
		if resp.TotalSalaires < 0 {
			resp.TotalSalaires = 0
		}

		resp.Solde = resp.TotalRecettes - resp.TotalDepenses - resp.TotalSalaires
		return c.JSON(resp)
	}
}
