package audit

import (
	"fmt"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type HistoriqueResponse struct {
	ID          uint   `json:"id"`
	CreatedAt   string `json:"created_at"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	BeforeData  string `json:"before_data"`
	AfterData   string `json:"after_data"`
}

// GET /api/historique?entity_type=paiement&from=...&to=...&limit=100
func ListHistoriqueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Historique{})

		if et := c.Query("entity_type"); et != "" {
			dbq = dbq.Where("entity_type = ?", et)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from invalide (AAAA-MM-JJ)")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to invalide (AAAA-MM-JJ)")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		limit := 100
		if ls := c.Query("limit"); ls != "" {
			if _, err := fmt.Sscan(ls, &limit); err != nil || limit <= 0 || limit > 1000 {
				return fiber.NewError(fiber.StatusBadRequest, "limit invalide")
			}
		}

		var rows []models.Historique
		if err := dbq.Order("created_at desc, id desc").Limit(limit).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Historique non chargé")
		}

		resp := make([]HistoriqueResponse, 0, len(rows))
		for _, h := range rows {
			resp = append(resp, HistoriqueResponse{
				ID:          h.ID,
				CreatedAt:   h.CreatedAt.Format(time.RFC3339),
				UserID:      h.UserID,
				UserName:    h.UserName,
				EntityType:  h.EntityType,
				EntityID:    h.EntityID,
				Action:      string(h.Action),
				Description: h.Description,
				BeforeData:  h.BeforeData,
				AfterData:   h.AfterData,
			})
		}

		return c.JSON(resp)
	}
}
