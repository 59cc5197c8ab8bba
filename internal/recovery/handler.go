package recovery

import (
	"fmt"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TrancheOption struct {
	ID         uint    `json:"id"`
	Nom        string  `json:"nom"`
	Montant    float64 `json:"montant"`
	DateLimite string  `json:"date_limite"`
}

type ClasseOption struct {
	ID  uint   `json:"id"`
	Nom string `json:"nom"`
}

type DetteResponse struct {
	EleveID         uint    `json:"eleve_id"`
	Matricule       string  `json:"matricule"`
	NomComplet      string  `json:"nom_complet"`
	ClasseID        uint    `json:"classe_id"`
	Classe          string  `json:"classe"`
	StatutEleve     string  `json:"statut_eleve"`
	MontantTotal    float64 `json:"montant_total"`
	MontantPaye     float64 `json:"montant_paye"`
	ResteAPayer     float64 `json:"reste_a_payer"`
	PourcentagePaye float64 `json:"pourcentage_paye"`
	EstRegle        bool    `json:"est_regle"`
	Statut          string  `json:"statut"`
	JoursRestants   int     `json:"jours_restants"`
}

type StatsResponse struct {
	TotalEleves      int     `json:"total_eleves"`
	TotalDette       float64 `json:"total_dette"`
	TotalPaye        float64 `json:"total_paye"`
	TotalReste       float64 `json:"total_reste"`
	TauxRecouvrement float64 `json:"taux_recouvrement"`
	NombreRegles     int     `json:"nombre_regles"`
	NombreEnRetard   int     `json:"nombre_en_retard"`
}

type FiltersEcho struct {
	TrancheID uint   `json:"tranche_id"`
	ClasseID  uint   `json:"classe_id"`
	Statut    string `json:"statut"`
}

type PageResponse struct {
	Tranches        []TrancheOption `json:"tranches"`
	Classes         []ClasseOption  `json:"classes"`
	Dettes          []DetteResponse `json:"dettes"`
	Stats           StatsResponse   `json:"stats"`
	Filters         FiltersEcho     `json:"filters"`
	SelectedTranche *TrancheOption  `json:"selectedTranche"`
}

func toDetteResponse(d Dette) DetteResponse {
	return DetteResponse{
		EleveID:         d.Eleve.ID,
		Matricule:       d.Eleve.Matricule,
		NomComplet:      d.Eleve.NomComplet,
		ClasseID:        d.Eleve.ClasseID,
		Classe:          d.Eleve.Classe,
		StatutEleve:     d.Eleve.Statut,
		MontantTotal:    d.MontantTotal,
		MontantPaye:     d.MontantPaye,
		ResteAPayer:     d.ResteAPayer,
		PourcentagePaye: d.PourcentagePaye,
		EstRegle:        d.EstRegle,
		Statut:          string(d.Statut),
		JoursRestants:   d.JoursRestants,
	}
}

func toStatsResponse(s Stats) StatsResponse {
	return StatsResponse{
		TotalEleves:      s.TotalEleves,
		TotalDette:       s.TotalDette,
		TotalPaye:        s.TotalPaye,
		TotalReste:       s.TotalReste,
		TauxRecouvrement: s.TauxRecouvrement,
		NombreRegles:     s.NombreRegles,
		NombreEnRetard:   s.NombreEnRetard,
	}
}

// loadDettes - charge élèves + paiements et déroule le calcul pour une
// tranche. classeID = 0: toutes les classes (le filtre classe est appliqué
// dans la requête élèves, pas a posteriori). Tous les statuts d'élèves sont
// couverts: un élève parti avec une tranche impayée reste dans le rapport.
func loadDettes(tranche models.Tranche, classeID uint, now time.Time) ([]Dette, error) {
	eq := database.DB.Model(&models.Eleve{}).Preload("Classe")
	if classeID != 0 {
		eq = eq.Where("classe_id = ?", classeID)
	}

	var eleves []models.Eleve
	if err := eq.Order("nom asc, post_nom asc").Find(&eleves).Error; err != nil {
		return nil, err
	}

	type paidRow struct {
		EleveID uint    `gorm:"column:eleve_id"`
		Total   float64 `gorm:"column:total"`
	}
	var rows []paidRow
	if err := database.DB.Model(&models.Paiement{}).
		Select("eleve_id, SUM(montant) as total").
		Where("tranche_id = ? AND eleve_id IS NOT NULL", tranche.ID).
		Group("eleve_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	paiements := make(map[uint]float64, len(rows))
	for _, r := range rows {
		paiements[r.EleveID] = r.Total
	}

	infos := make([]EleveInfo, 0, len(eleves))
	for _, e := range eleves {
		infos = append(infos, EleveInfo{
			ID:         e.ID,
			Matricule:  e.Matricule,
			NomComplet: e.NomComplet(),
			ClasseID:   e.ClasseID,
			Classe:     e.Classe.Nom,
			Statut:     string(e.Statut),
		})
	}

	ti := TrancheInfo{
		ID:         tranche.ID,
		Nom:        tranche.Nom,
		Montant:    tranche.Montant,
		DateLimite: tranche.DateLimite,
	}

	return ComputeDettes(infos, ti, paiements, now), nil
}

// GET /api/recouvrement?tranche_id=&classe_id=&statut=
func PageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := PageResponse{
			Tranches: []TrancheOption{},
			Classes:  []ClasseOption{},
			Dettes:   []DetteResponse{},
		}

		var tranches []models.Tranche
		if err := database.DB.
			Joins("JOIN configuration_frais ON configuration_frais.id = tranches.configuration_frais_id").
			Where("configuration_frais.actif = ?", true).
			Order("tranches.ordre asc").
			Find(&tranches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tranches non chargées")
		}
		for _, t := range tranches {
			resp.Tranches = append(resp.Tranches, TrancheOption{
				ID:         t.ID,
				Nom:        t.Nom,
				Montant:    t.Montant,
				DateLimite: t.DateLimite.Format("2006-01-02"),
			})
		}

		var classes []models.Classe
		if err := database.DB.Order("nom asc").Find(&classes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Classes non chargées")
		}
		for _, cl := range classes {
			resp.Classes = append(resp.Classes, ClasseOption{ID: cl.ID, Nom: cl.Nom})
		}

		var trancheID, classeID uint
		if s := c.Query("tranche_id"); s != "" {
			if _, err := fmt.Sscan(s, &trancheID); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "tranche_id invalide")
			}
		}
		if s := c.Query("classe_id"); s != "" {
			if _, err := fmt.Sscan(s, &classeID); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "classe_id invalide")
			}
		}
		statut := c.Query("statut")
		if statut != "" && statut != StatutTous && !DetteStatut(statut).Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
		}

		resp.Filters = FiltersEcho{TrancheID: trancheID, ClasseID: classeID, Statut: statut}

		// sans tranche, ou tranche inconnue: page vide, stats à zéro,
		// pas une erreur
		if trancheID == 0 {
			return c.JSON(resp)
		}
		var tranche models.Tranche
		if err := database.DB.First(&tranche, "id = ?", trancheID).Error; err != nil {
			return c.JSON(resp)
		}

		resp.SelectedTranche = &TrancheOption{
			ID:         tranche.ID,
			Nom:        tranche.Nom,
			Montant:    tranche.Montant,
			DateLimite: tranche.DateLimite.Format("2006-01-02"),
		}

		dettes, err := loadDettes(tranche, classeID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Calcul du recouvrement impossible")
		}

		dettes = FilterByStatut(dettes, statut)
		for _, d := range dettes {
			resp.Dettes = append(resp.Dettes, toDetteResponse(d))
		}
		resp.Stats = toStatsResponse(Aggregate(dettes))

		return c.JSON(resp)
	}
}
