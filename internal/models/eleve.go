package models

import "time"

type EleveStatut string

const (
	EleveActif     EleveStatut = "actif"
	EleveInactif   EleveStatut = "inactif"
	EleveTransfere EleveStatut = "transfere"
	EleveExclus    EleveStatut = "exclus"
	EleveDiplome   EleveStatut = "diplome"
)

func (s EleveStatut) Valid() bool {
	switch s {
	case EleveActif, EleveInactif, EleveTransfere, EleveExclus, EleveDiplome:
		return true
	}
	return false
}

type Eleve struct {
	ID            uint   `gorm:"primaryKey"`
	Matricule     string `gorm:"size:50;uniqueIndex;not null"`
	Nom           string `gorm:"size:100;not null"`
	PostNom       string `gorm:"size:100"`
	Prenom        string `gorm:"size:100"`
	Sexe          string `gorm:"size:1"`
	DateNaissance *time.Time
	LieuNaissance string `gorm:"size:100"`
	Adresse       string `gorm:"size:255"`
	NomTuteur     string `gorm:"size:150"`
	TelTuteur     string `gorm:"size:50"`
	ClasseID      uint   `gorm:"index;not null"`
	Classe        Classe
	Statut        EleveStatut `gorm:"size:20;not null;default:actif"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NomComplet - affichage "NOM POSTNOM Prenom"
func (e Eleve) NomComplet() string {
	s := e.Nom
	if e.PostNom != "" {
		s += " " + e.PostNom
	}
	if e.Prenom != "" {
		s += " " + e.Prenom
	}
	return s
}
