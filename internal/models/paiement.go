package models

import "time"

type ModePaiement string

const (
	ModeEspeces     ModePaiement = "espece"
	ModeCheque      ModePaiement = "cheque"
	ModeVirement    ModePaiement = "virement"
	ModeMobileMoney ModePaiement = "mobile_money"
)

func (m ModePaiement) Valid() bool {
	switch m {
	case ModeEspeces, ModeCheque, ModeVirement, ModeMobileMoney:
		return true
	}
	return false
}

// Paiement - un encaissement de frais scolaires
type Paiement struct {
	ID           uint   `gorm:"primaryKey"`
	NumeroRecu   string `gorm:"size:50;uniqueIndex;not null"`
	EleveID      *uint  `gorm:"index"`
	Eleve        *Eleve
	TrancheID    *uint `gorm:"index"`
	Tranche      *Tranche
	Montant      float64      `gorm:"not null"`
	ModePaiement ModePaiement `gorm:"size:20;not null"`
	DatePaiement time.Time    `gorm:"index;not null"`
	Commentaire  string       `gorm:"size:255"`
	UserID       uint         `gorm:"index;not null"` // caissier ayant saisi
	User         User
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
