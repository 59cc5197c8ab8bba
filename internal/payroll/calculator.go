package payroll

import (
	"errors"
	"time"

	"ecole-backend/internal/models"
)

// ErrSansConfiguration - pas de calcul de paie sans configuration
// salariale active.
var ErrSansConfiguration = errors.New("aucune configuration salariale active")

// Calcul - résultat du calcul de paie pour une période.
// Retenues n'entre volontairement pas dans NetAPayer: le champ est stocké
// sur le paiement mais jamais soustrait.
type Calcul struct {
	SalaireBase       float64
	AvancesDeduites   float64
	HeuresTravaillees float64
	NetAPayer         float64
}

// SalaireBase - base brute selon la configuration.
// Horaire: heures x taux. Mensuel: fixe, indépendant des présences.
func SalaireBase(cfg models.ProfSalaire, heuresTravaillees float64) float64 {
	switch cfg.TypeSalaire {
	case models.SalaireHoraire:
		if cfg.TauxHoraire == nil {
			return 0
		}
		return heuresTravaillees * *cfg.TauxHoraire
	case models.SalaireMensuel:
		if cfg.SalaireFixe == nil {
			return 0
		}
		return *cfg.SalaireFixe
	}
	return 0
}

// NetAPayer - net après déduction des avances, jamais négatif.
func NetAPayer(base, avances float64) float64 {
	net := base - avances
	if net < 0 {
		return 0
	}
	return net
}

// ComputePaie - assemble base, avances déduites et net à payer.
func ComputePaie(cfg models.ProfSalaire, heuresTravaillees, avancesDeduites float64) Calcul {
	base := SalaireBase(cfg, heuresTravaillees)
	return Calcul{
		SalaireBase:       base,
		AvancesDeduites:   avancesDeduites,
		HeuresTravaillees: heuresTravaillees,
		NetAPayer:         NetAPayer(base, avancesDeduites),
	}
}

// ComputePaiePourConfig - même calcul, précondition comprise: sans
// configuration active, ErrSansConfiguration et aucun résultat.
func ComputePaiePourConfig(cfg *models.ProfSalaire, heuresTravaillees, avancesDeduites float64) (Calcul, error) {
	if cfg == nil || !cfg.Actif {
		return Calcul{}, ErrSansConfiguration
	}
	return ComputePaie(*cfg, heuresTravaillees, avancesDeduites), nil
}

// SommeHeures - heures prestées sur le mois. Seuls les pointages avec
// heure d'arrivée comptent.
func SommeHeures(presences []models.Presence, debut, fin time.Time) float64 {
	var total float64
	for _, p := range presences {
		if p.HeureArrivee == nil {
			continue
		}
		if p.Date.Before(debut) || !p.Date.Before(fin) {
			continue
		}
		total += p.HeuresPrestees
	}
	return total
}

// SommeAvances - total des avances à déduire sur la période.
// Seules les avances au statut "payee" dont la date tombe dans le mois
// entrent en ligne de compte, rien d'autre.
func SommeAvances(avances []models.AvanceSalaire, debut, fin time.Time) float64 {
	var total float64
	for _, a := range avances {
		if a.Statut != models.AvancePayee {
			continue
		}
		if a.DateAvance.Before(debut) || !a.DateAvance.Before(fin) {
			continue
		}
		total += a.Montant
	}
	return total
}

// HeuresPrestees - durée entre arrivée et départ, en heures décimales.
func HeuresPrestees(arrivee, depart time.Time) float64 {
	h := depart.Sub(arrivee).Hours()
	if h < 0 {
		return 0
	}
	return h
}
