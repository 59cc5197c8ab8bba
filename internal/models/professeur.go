package models

import "time"

type Professeur struct {
	ID          uint   `gorm:"primaryKey"`
	Matricule   string `gorm:"size:50;uniqueIndex;not null"`
	Nom         string `gorm:"size:100;not null"`
	PostNom     string `gorm:"size:100"`
	Prenom      string `gorm:"size:100"`
	Telephone   string `gorm:"size:50"`
	Email       string `gorm:"size:100"`
	Specialite  string `gorm:"size:100"`
	DateEntree  *time.Time
	Actif       bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Professeur) NomComplet() string {
	s := p.Nom
	if p.PostNom != "" {
		s += " " + p.PostNom
	}
	if p.Prenom != "" {
		s += " " + p.Prenom
	}
	return s
}
