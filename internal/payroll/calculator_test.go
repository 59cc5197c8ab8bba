package payroll_test

import (
	"testing"
	"time"

	"ecole-backend/internal/models"
	"ecole-backend/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func configHoraire(taux float64) models.ProfSalaire {
	return models.ProfSalaire{ProfesseurID: 1, TypeSalaire: models.SalaireHoraire, TauxHoraire: f(taux), Actif: true}
}

func configMensuel(fixe float64) models.ProfSalaire {
	return models.ProfSalaire{ProfesseurID: 1, TypeSalaire: models.SalaireMensuel, SalaireFixe: f(fixe), Actif: true}
}

func TestComputePaie_Horaire(t *testing.T) {
	// GIVEN: taux 10, 20 heures, avance payée de 50 dans le mois
	// THEN: base 200, déduction 50, net 150
	calcul := payroll.ComputePaie(configHoraire(10), 20, 50)

	assert.Equal(t, 200.0, calcul.SalaireBase)
	assert.Equal(t, 50.0, calcul.AvancesDeduites)
	assert.Equal(t, 150.0, calcul.NetAPayer)
	assert.Equal(t, 20.0, calcul.HeuresTravaillees)
}

func TestComputePaie_MensuelIgnoreLesHeures(t *testing.T) {
	// salaire fixe: les heures n'entrent pas dans le calcul
	calcul := payroll.ComputePaie(configMensuel(1000), 3, 0)

	assert.Equal(t, 1000.0, calcul.SalaireBase)
	assert.Equal(t, 1000.0, calcul.NetAPayer)
}

func TestComputePaie_NetJamaisNegatif(t *testing.T) {
	// avances 1200 > fixe 1000: net 0, pas -200
	calcul := payroll.ComputePaie(configMensuel(1000), 0, 1200)

	assert.Equal(t, 1000.0, calcul.SalaireBase)
	assert.Equal(t, 1200.0, calcul.AvancesDeduites)
	assert.Equal(t, 0.0, calcul.NetAPayer)
}

func TestComputePaiePourConfig_SansConfiguration(t *testing.T) {
	// précondition: sans configuration active, erreur et aucun résultat
	_, err := payroll.ComputePaiePourConfig(nil, 20, 0)
	assert.ErrorIs(t, err, payroll.ErrSansConfiguration)

	inactive := configMensuel(1000)
	inactive.Actif = false
	_, err = payroll.ComputePaiePourConfig(&inactive, 0, 0)
	assert.ErrorIs(t, err, payroll.ErrSansConfiguration)
}

func TestComputePaiePourConfig_ConfigActive(t *testing.T) {
	cfg := configHoraire(10)

	calcul, err := payroll.ComputePaiePourConfig(&cfg, 20, 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, calcul.NetAPayer)
}

func TestNetAPayer(t *testing.T) {
	assert.Equal(t, 150.0, payroll.NetAPayer(200, 50))
	// avances > base: 0, jamais négatif
	assert.Equal(t, 0.0, payroll.NetAPayer(100, 130))
	assert.Equal(t, 0.0, payroll.NetAPayer(0, 0))
}

func TestSalaireBase_HoraireSansTaux(t *testing.T) {
	// configuration incohérente: base 0 plutôt qu'un déréférencement nil
	cfg := models.ProfSalaire{TypeSalaire: models.SalaireHoraire}
	assert.Equal(t, 0.0, payroll.SalaireBase(cfg, 40))
}

func TestSommeAvances_FiltreStatutEtMois(t *testing.T) {
	debut := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	fin := debut.AddDate(0, 1, 0)

	avances := []models.AvanceSalaire{
		// comptée: payée dans le mois
		{Montant: 50, Statut: models.AvancePayee, DateAvance: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)},
		// ignorée: seulement approuvée
		{Montant: 30, Statut: models.AvanceApprouvee, DateAvance: time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)},
		// ignorée: déjà déduite
		{Montant: 25, Statut: models.AvanceDeduite, DateAvance: time.Date(2026, time.January, 13, 0, 0, 0, 0, time.UTC)},
		// ignorée: payée mais le mois précédent
		{Montant: 40, Statut: models.AvancePayee, DateAvance: time.Date(2025, time.December, 28, 0, 0, 0, 0, time.UTC)},
		// ignorée: payée mais le mois suivant
		{Montant: 60, Statut: models.AvancePayee, DateAvance: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t, 50.0, payroll.SommeAvances(avances, debut, fin))
}

func TestSommeHeures_IgnoreSansArrivee(t *testing.T) {
	debut := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	fin := debut.AddDate(0, 1, 0)
	arrivee := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

	presences := []models.Presence{
		{Date: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), HeureArrivee: &arrivee, HeuresPrestees: 6},
		// pas d'arrivée pointée: ne compte pas
		{Date: time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC), HeuresPrestees: 8},
		// hors période
		{Date: time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC), HeureArrivee: &arrivee, HeuresPrestees: 4},
	}

	assert.Equal(t, 6.0, payroll.SommeHeures(presences, debut, fin))
}

func TestHeuresPrestees(t *testing.T) {
	arrivee := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	depart := time.Date(2026, time.January, 5, 14, 30, 0, 0, time.UTC)

	assert.InDelta(t, 6.5, payroll.HeuresPrestees(arrivee, depart), 0.001)
	// départ avant arrivée: 0, jamais négatif
	assert.Equal(t, 0.0, payroll.HeuresPrestees(depart, arrivee))
}

func TestComputePaie_RetenuesInertes(t *testing.T) {
	// les retenues sont stockées sur le paiement mais n'entrent pas
	// dans le net: le calcul ne les connaît même pas
	calcul := payroll.ComputePaie(configMensuel(800), 0, 100)
	assert.Equal(t, 700.0, calcul.NetAPayer)
}
