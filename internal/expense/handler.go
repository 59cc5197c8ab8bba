package expense

import (
	"fmt"
	"strings"
	"time"

	"ecole-backend/internal/audit"
	"ecole-backend/internal/auth"
	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategorieResponse struct {
	ID  uint   `json:"id"`
	Nom string `json:"nom"`
}

type CreateCategorieRequest struct {
	Nom string `json:"nom"`
}

type UpdateCategorieRequest struct {
	Nom *string `json:"nom"`
}

type CreateDepenseRequest struct {
	Date        string  `json:"date"` // AAAA-MM-JJ
	CategorieID uint    `json:"categorie_id"`
	Montant     float64 `json:"montant"`
	Description string  `json:"description"`
}

type DepenseResponse struct {
	ID          uint    `json:"id"`
	CategorieID uint    `json:"categorie_id"`
	Categorie   string  `json:"categorie"`
	Date        string  `json:"date"`
	Montant     float64 `json:"montant"`
	Description string  `json:"description"`
}

type MonthlySummaryItem struct {
	CategorieID  uint    `json:"categorie_id"`
	CategorieNom string  `json:"categorie_nom"`
	Total        float64 `json:"total"`
}

type MonthlySummaryResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Items      []MonthlySummaryItem `json:"items"`
	GrandTotal float64              `json:"grand_total"`
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Utilisateur introuvable")
	}
	return userID, user.Name, nil
}

// -------------------------
// Catégories de dépenses
// -------------------------

// GET /api/categories-depenses
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.CategorieDepense
		if err := database.DB.Order("nom asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Catégories non listées")
		}

		res := make([]CategorieResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, CategorieResponse{ID: cat.ID, Nom: cat.Nom})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/categories-depenses
func CreateCategorieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategorieRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "nom obligatoire")
		}

		cat := models.CategorieDepense{Nom: body.Nom}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Catégorie non créée (nom déjà pris ?)")
		}

		return c.Status(fiber.StatusCreated).JSON(CategorieResponse{ID: cat.ID, Nom: cat.Nom})
	}
}

// PUT /api/admin/categories-depenses/:id
func UpdateCategorieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.CategorieDepense
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Catégorie introuvable")
		}

		var body UpdateCategorieRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "nom ne peut pas être vide")
			}
			cat.Nom = nom
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Catégorie non mise à jour")
		}
		return c.JSON(CategorieResponse{ID: cat.ID, Nom: cat.Nom})
	}
}

// DELETE /api/admin/categories-depenses/:id
func DeleteCategorieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var nb int64
		database.DB.Model(&models.Depense{}).Where("categorie_id = ?", id).Count(&nb)
		if nb > 0 {
			return fiber.NewError(fiber.StatusConflict, "Des dépenses sont liées à cette catégorie")
		}

		if err := database.DB.Delete(&models.CategorieDepense{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Catégorie non supprimée")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Dépenses
// -------------------------

// POST /api/depenses
func CreateDepenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDepenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.CategorieID == 0 || body.Montant <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "categorie_id et montant > 0 obligatoires")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date invalide (AAAA-MM-JJ)")
		}

		var cat models.CategorieDepense
		if err := database.DB.First(&cat, "id = ?", body.CategorieID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Catégorie introuvable")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		dep := models.Depense{
			CategorieID: body.CategorieID,
			Date:        d,
			Montant:     body.Montant,
			Description: body.Description,
			UserID:      userID,
		}

		if err := database.DB.Create(&dep).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dépense non enregistrée")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "depense",
			EntityID:    dep.ID,
			Action:      models.ActionCreate,
			Description: fmt.Sprintf("Dépense ajoutée: %s - %.2f", cat.Nom, dep.Montant),
			Before:      nil,
			After: fiber.Map{
				"id":           dep.ID,
				"categorie_id": dep.CategorieID,
				"date":         dep.Date.Format("2006-01-02"),
				"montant":      dep.Montant,
				"description":  dep.Description,
			},
		}); logErr != nil {
			fmt.Printf("Historique non écrit: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(DepenseResponse{
			ID:          dep.ID,
			CategorieID: dep.CategorieID,
			Categorie:   cat.Nom,
			Date:        dep.Date.Format("2006-01-02"),
			Montant:     dep.Montant,
			Description: dep.Description,
		})
	}
}

// GET /api/depenses?from=...&to=...&categorie_id=...
func ListDepensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Depense{}).Preload("Categorie")

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from invalide")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to invalide")
			}
			dbq = dbq.Where("date <= ?", to)
		}
		if catStr := c.Query("categorie_id"); catStr != "" {
			var cid uint
			if _, err := fmt.Sscan(catStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "categorie_id invalide")
			}
			dbq = dbq.Where("categorie_id = ?", cid)
		}

		var rows []models.Depense
		if err := dbq.Order("date asc, id asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dépenses non listées")
		}

		resp := make([]DepenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, DepenseResponse{
				ID:          r.ID,
				CategorieID: r.CategorieID,
				Categorie:   r.Categorie.Nom,
				Date:        r.Date.Format("2006-01-02"),
				Montant:     r.Montant,
				Description: r.Description,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/depenses/summary/monthly?year=2026&month=1
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year et month obligatoires")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year invalide")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month invalide")
		}

		loc := time.Now().Location()
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		lastDay := firstDay.AddDate(0, 1, -1)

		type row struct {
			CategorieID uint    `gorm:"column:categorie_id"`
			Total       float64 `gorm:"column:total"`
		}
		var rows []row

		if err := database.DB.
			Model(&models.Depense{}).
			Select("categorie_id, SUM(montant) as total").
			Where("date >= ? AND date <= ?", firstDay, lastDay).
			Group("categorie_id").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Résumé non calculé")
		}

		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.CategorieID)
		}

		var cats []models.CategorieDepense
		if len(ids) > 0 {
			if err := database.DB.Where("id IN ?", ids).Find(&cats).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Catégories non chargées")
			}
		}
		catMap := make(map[uint]string)
		for _, cat := range cats {
			catMap[cat.ID] = cat.Nom
		}

		resp := MonthlySummaryResponse{
			Year:  year,
			Month: month,
			Items: make([]MonthlySummaryItem, 0, len(rows)),
		}
		for _, r := range rows {
			resp.Items = append(resp.Items, MonthlySummaryItem{
				CategorieID:  r.CategorieID,
				CategorieNom: catMap[r.CategorieID],
				Total:        r.Total,
			})
			resp.GrandTotal += r.Total
		}

		return c.JSON(resp)
	}
}
