package models

import "time"

type Classe struct {
	ID            uint   `gorm:"primaryKey"`
	Nom           string `gorm:"size:100;not null"`
	Niveau        string `gorm:"size:50"`
	Section       string `gorm:"size:100"`
	AnneeScolaire string `gorm:"size:20;index"` // ex: "2025-2026"
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Eleves []Eleve
}
