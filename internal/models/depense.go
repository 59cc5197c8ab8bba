package models

import "time"

type CategorieDepense struct {
	ID        uint   `gorm:"primaryKey"`
	Nom       string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Depense struct {
	ID          uint `gorm:"primaryKey"`
	CategorieID uint `gorm:"index;not null"`
	Categorie   CategorieDepense `gorm:"foreignKey:CategorieID"`
	Date        time.Time        `gorm:"index;not null"`
	Montant     float64          `gorm:"not null"`
	Description string           `gorm:"size:255"`
	UserID      uint             `gorm:"index;not null"`
	User        User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Budget - enveloppe allouée à une catégorie pour une année scolaire
type Budget struct {
	ID             uint `gorm:"primaryKey"`
	CategorieID    uint `gorm:"index;not null"`
	Categorie      CategorieDepense `gorm:"foreignKey:CategorieID"`
	AnneeScolaire  string           `gorm:"size:20;index;not null"`
	MontantAlloue  float64          `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
