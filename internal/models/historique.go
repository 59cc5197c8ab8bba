package models

import "time"

type HistoriqueAction string

const (
	ActionCreate HistoriqueAction = "create"
	ActionUpdate HistoriqueAction = "update"
	ActionDelete HistoriqueAction = "delete"
)

// Historique - journal append-only des opérations sensibles
// (les suppressions de paiements y passent avant retrait).
type Historique struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID   uint   `gorm:"index"`
	UserName string `gorm:"size:100"` // dénormalisé

	EntityType string `gorm:"size:50;index"` // ex: "paiement", "depense", "eleve"
	EntityID   uint   `gorm:"index"`

	Action      HistoriqueAction `gorm:"size:20"`
	Description string           `gorm:"size:255"`

	BeforeData string `gorm:"type:jsonb"`
	AfterData  string `gorm:"type:jsonb"`
}
