package recovery

import "time"

type DetteStatut string

const (
	DetteRegle   DetteStatut = "regle"
	DetteRetard  DetteStatut = "retard"
	DetteUrgent  DetteStatut = "urgent"
	DetteEnCours DetteStatut = "en_cours"

	// filtre "pas de filtre"
	StatutTous = "tous"
)

// Seuil en jours sous lequel une tranche non réglée devient urgente.
const DelaiUrgenceJours = 7

func (s DetteStatut) Valid() bool {
	switch s {
	case DetteRegle, DetteRetard, DetteUrgent, DetteEnCours:
		return true
	}
	return false
}

type EleveInfo struct {
	ID         uint
	Matricule  string
	NomComplet string
	ClasseID   uint
	Classe     string
	Statut     string
}

type TrancheInfo struct {
	ID         uint
	Nom        string
	Montant    float64
	DateLimite time.Time
}

// Dette - situation d'un élève vis-à-vis d'une tranche. Jamais persisté,
// recalculé à chaque requête depuis les paiements.
type Dette struct {
	Eleve           EleveInfo
	MontantTotal    float64
	MontantPaye     float64
	ResteAPayer     float64
	PourcentagePaye float64
	EstRegle        bool
	Statut          DetteStatut
	JoursRestants   int
}

type Stats struct {
	TotalEleves      int
	TotalDette       float64
	TotalPaye        float64
	TotalReste       float64
	TauxRecouvrement float64
	NombreRegles     int
	NombreEnRetard   int
}

// joursRestants - écart signé en jours calendaires entre aujourd'hui et la
// date limite. Positif: jours restants avant l'échéance. Négatif: jours de
// retard. Les deux dates sont tronquées sur un même fuseau, la différence
// est un multiple exact de 24h.
func joursRestants(now, limite time.Time) int {
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	l := time.Date(limite.Year(), limite.Month(), limite.Day(), 0, 0, 0, 0, time.UTC)
	return int(l.Sub(n).Hours() / 24)
}

// ComputeDette - situation d'un seul élève pour une tranche donnée.
// montantPaye est la somme de ses paiements sur cette tranche (0 si aucun).
func ComputeDette(eleve EleveInfo, tranche TrancheInfo, montantPaye float64, now time.Time) Dette {
	d := Dette{
		Eleve:        eleve,
		MontantTotal: tranche.Montant,
		MontantPaye:  montantPaye,
	}

	d.ResteAPayer = tranche.Montant - montantPaye
	if d.ResteAPayer < 0 {
		d.ResteAPayer = 0
	}

	// garde division par zéro: 0%, pas de NaN
	if tranche.Montant > 0 {
		d.PourcentagePaye = montantPaye / tranche.Montant * 100
	}

	d.EstRegle = d.ResteAPayer <= 0
	d.JoursRestants = joursRestants(now, tranche.DateLimite)

	// classification par priorité, premier cas gagnant
	switch {
	case d.EstRegle:
		d.Statut = DetteRegle
	case tranche.DateLimite.Before(now):
		d.Statut = DetteRetard
	case d.JoursRestants <= DelaiUrgenceJours:
		d.Statut = DetteUrgent
	default:
		d.Statut = DetteEnCours
	}

	return d
}

// ComputeDettes - la même chose pour toute une population d'élèves.
// paiements associe eleve_id -> somme payée sur la tranche; les élèves
// absents de la map sont traités comme n'ayant rien payé.
func ComputeDettes(eleves []EleveInfo, tranche TrancheInfo, paiements map[uint]float64, now time.Time) []Dette {
	dettes := make([]Dette, 0, len(eleves))
	for _, e := range eleves {
		dettes = append(dettes, ComputeDette(e, tranche, paiements[e.ID], now))
	}
	return dettes
}

// FilterByStatut - filtre a posteriori sur le code de classification.
// "" ou "tous" laissent la liste intacte.
func FilterByStatut(dettes []Dette, statut string) []Dette {
	if statut == "" || statut == StatutTous {
		return dettes
	}
	out := make([]Dette, 0, len(dettes))
	for _, d := range dettes {
		if string(d.Statut) == statut {
			out = append(out, d)
		}
	}
	return out
}

// Aggregate - bloc de statistiques sur une liste (déjà filtrée ou non).
func Aggregate(dettes []Dette) Stats {
	var s Stats
	s.TotalEleves = len(dettes)
	for _, d := range dettes {
		s.TotalDette += d.MontantTotal
		s.TotalPaye += d.MontantPaye
		s.TotalReste += d.ResteAPayer
		if d.EstRegle {
			s.NombreRegles++
		}
		if d.Statut == DetteRetard {
			s.NombreEnRetard++
		}
	}
	if s.TotalDette > 0 {
		s.TauxRecouvrement = s.TotalPaye / s.TotalDette * 100
	}
	return s
}
