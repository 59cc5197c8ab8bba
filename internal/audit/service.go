package audit

import (
	"encoding/json"
	"fmt"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.HistoriqueAction
	Description string
	Before      any
	After       any
}

// WriteLog - insère une ligne d'historique via la connexion globale.
func WriteLog(opts LogOptions) error {
	return WriteLogTx(database.DB, opts)
}

// WriteLogTx - même chose au sein d'une transaction en cours.
// Les suppressions de paiements doivent passer ici AVANT le retrait,
// dans la même transaction.
func WriteLogTx(tx *gorm.DB, opts LogOptions) error {
	// jsonb refuse la chaîne vide, on stocke le JSON "null"
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	h := models.Historique{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := tx.Create(&h).Error; err != nil {
		return fmt.Errorf("historique non enregistré: %w", err)
	}

	return nil
}
