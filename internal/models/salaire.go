package models

import "time"

type TypeSalaire string

const (
	SalaireHoraire TypeSalaire = "horaire"
	SalaireMensuel TypeSalaire = "mensuel"
)

func (t TypeSalaire) Valid() bool {
	return t == SalaireHoraire || t == SalaireMensuel
}

// ProfSalaire - configuration salariale d'un professeur.
// Au plus une configuration active par professeur (contrôlé à l'écriture).
type ProfSalaire struct {
	ID           uint `gorm:"primaryKey"`
	ProfesseurID uint `gorm:"index;not null"`
	Professeur   Professeur
	TypeSalaire  TypeSalaire `gorm:"size:20;not null"`
	TauxHoraire  *float64    // requis si horaire
	SalaireFixe  *float64    // requis si mensuel
	Actif        bool        `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AvanceStatut string

const (
	AvanceDemandee  AvanceStatut = "demandee"
	AvanceApprouvee AvanceStatut = "approuvee"
	AvancePayee     AvanceStatut = "payee"
	AvanceDeduite   AvanceStatut = "deduite"
)

func (s AvanceStatut) Valid() bool {
	switch s {
	case AvanceDemandee, AvanceApprouvee, AvancePayee, AvanceDeduite:
		return true
	}
	return false
}

// AvanceSalaire - avance sur salaire accordée à un professeur
type AvanceSalaire struct {
	ID           uint `gorm:"primaryKey"`
	ProfesseurID uint `gorm:"index;not null"`
	Professeur   Professeur
	Montant      float64      `gorm:"not null"`
	DateAvance   time.Time    `gorm:"index;not null"`
	Statut       AvanceStatut `gorm:"size:20;not null;default:demandee"`
	Motif        string       `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Presence - un pointage journalier par professeur
type Presence struct {
	ID             uint `gorm:"primaryKey"`
	ProfesseurID   uint `gorm:"index;not null"`
	Professeur     Professeur
	Date           time.Time `gorm:"index;not null"` // jour, sans heure
	HeureArrivee   *time.Time
	HeureDepart    *time.Time
	HeuresPrestees float64 // calculé au départ
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type TypePaiementSalaire string

const (
	PaiementSalaireNormal         TypePaiementSalaire = "normal"
	PaiementSalaireAvance         TypePaiementSalaire = "avance"
	PaiementSalaireRegularisation TypePaiementSalaire = "regularisation"
)

func (t TypePaiementSalaire) Valid() bool {
	switch t {
	case PaiementSalaireNormal, PaiementSalaireAvance, PaiementSalaireRegularisation:
		return true
	}
	return false
}

type PaiementSalaireStatut string

const (
	PaiementSalaireEnAttente PaiementSalaireStatut = "en_attente"
	PaiementSalairePaye      PaiementSalaireStatut = "paye"
)

// PaiementSalaire - un versement de paie (normal, avance ou régularisation).
// Pour le type normal, SalaireBase et AvancesDeduites sont calculés;
// Retenues est stocké mais n'entre dans aucun calcul.
type PaiementSalaire struct {
	ID              uint `gorm:"primaryKey"`
	ProfesseurID    uint `gorm:"index;not null"`
	Professeur      Professeur
	TypePaiement    TypePaiementSalaire `gorm:"size:20;not null"`
	Periode         string              `gorm:"size:7;index"` // "YYYY-MM", type normal uniquement
	SalaireBase     float64
	AvancesDeduites float64
	Retenues        float64
	AvanceID        *uint `gorm:"index"` // trace vers l'avance, type avance uniquement
	Avance          *AvanceSalaire `gorm:"foreignKey:AvanceID"`
	DatePaiement    time.Time             `gorm:"index;not null"`
	Statut          PaiementSalaireStatut `gorm:"size:20;not null;default:en_attente"`
	UserID          uint                  `gorm:"index;not null"`
	User            User
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
