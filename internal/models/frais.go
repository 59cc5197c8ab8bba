package models

import "time"

// ConfigurationFrais - barème de frais scolaires pour une année donnée
type ConfigurationFrais struct {
	ID            uint    `gorm:"primaryKey"`
	Nom           string  `gorm:"size:150;not null"` // ex: "Frais scolaires 2025-2026"
	AnneeScolaire string  `gorm:"size:20;index;not null"`
	MontantTotal  float64 `gorm:"not null"`
	Actif         bool    `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Tranches []Tranche `gorm:"foreignKey:ConfigurationFraisID"`
}

// "frais" est invariable, on fige le nom de table plutôt que de laisser
// l'inflection deviner.
func (ConfigurationFrais) TableName() string { return "configuration_frais" }

// Tranche - échéance d'une configuration de frais.
// Ordre est unique au sein d'une même configuration (contrôlé à l'écriture).
type Tranche struct {
	ID                   uint `gorm:"primaryKey"`
	ConfigurationFraisID uint `gorm:"index;not null"`
	ConfigurationFrais   ConfigurationFrais
	Nom                  string    `gorm:"size:100;not null"` // ex: "1ère tranche"
	Montant              float64   `gorm:"not null"`
	DateLimite           time.Time `gorm:"index;not null"`
	Ordre                int       `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
