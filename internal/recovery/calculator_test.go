package recovery_test

import (
	"testing"
	"time"

	"ecole-backend/internal/recovery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

func tranche(montant float64, limite time.Time) recovery.TrancheInfo {
	return recovery.TrancheInfo{ID: 1, Nom: "1ère tranche", Montant: montant, DateLimite: limite}
}

func eleve(id uint) recovery.EleveInfo {
	return recovery.EleveInfo{ID: id, Matricule: "MAT-001", NomComplet: "KABONGO Ilunga", ClasseID: 3, Classe: "6ème A"}
}

func TestComputeDette_PaiementPartiel(t *testing.T) {
	// GIVEN: tranche de 100, un paiement de 40, échéance loin devant
	// THEN: reste 60, 40% payé, en_cours
	limite := now.AddDate(0, 1, 0)

	d := recovery.ComputeDette(eleve(1), tranche(100, limite), 40, now)

	assert.Equal(t, 100.0, d.MontantTotal)
	assert.Equal(t, 40.0, d.MontantPaye)
	assert.Equal(t, 60.0, d.ResteAPayer)
	assert.InDelta(t, 40.0, d.PourcentagePaye, 0.001)
	assert.False(t, d.EstRegle)
	assert.Equal(t, recovery.DetteEnCours, d.Statut)
	assert.Equal(t, 31, d.JoursRestants)
}

func TestComputeDette_Regle(t *testing.T) {
	// GIVEN: paiements cumulés couvrant la tranche, échéance déjà passée
	// THEN: regle quelle que soit la date limite
	limite := now.AddDate(0, -1, 0)

	d := recovery.ComputeDette(eleve(1), tranche(100, limite), 100, now)

	assert.True(t, d.EstRegle)
	assert.Equal(t, recovery.DetteRegle, d.Statut)
	assert.Equal(t, 0.0, d.ResteAPayer)
	assert.InDelta(t, 100.0, d.PourcentagePaye, 0.001)
}

func TestComputeDette_Retard(t *testing.T) {
	// échéance strictement passée et dette ouverte
	limite := now.AddDate(0, 0, -10)

	d := recovery.ComputeDette(eleve(1), tranche(100, limite), 20, now)

	assert.Equal(t, recovery.DetteRetard, d.Statut)
	assert.Equal(t, -10, d.JoursRestants)
}

func TestComputeDette_Urgent(t *testing.T) {
	// échéance dans 5 jours: sous le seuil de 7
	limite := now.AddDate(0, 0, 5)

	d := recovery.ComputeDette(eleve(1), tranche(100, limite), 0, now)

	assert.Equal(t, recovery.DetteUrgent, d.Statut)
	assert.Equal(t, 5, d.JoursRestants)
}

func TestComputeDette_Surpaiement(t *testing.T) {
	// un trop-perçu ne doit ni planter ni produire un reste négatif
	limite := now.AddDate(0, 1, 0)

	d := recovery.ComputeDette(eleve(1), tranche(100, limite), 150, now)

	assert.Equal(t, 0.0, d.ResteAPayer)
	assert.InDelta(t, 150.0, d.PourcentagePaye, 0.001)
	assert.True(t, d.EstRegle)
	assert.Equal(t, recovery.DetteRegle, d.Statut)
}

func TestComputeDette_MontantZero(t *testing.T) {
	// tranche à 0: pourcentage 0, pas de NaN, et reste 0 -> regle
	d := recovery.ComputeDette(eleve(1), tranche(0, now.AddDate(0, 1, 0)), 0, now)

	assert.Equal(t, 0.0, d.PourcentagePaye)
	assert.True(t, d.EstRegle)
	assert.Equal(t, recovery.DetteRegle, d.Statut)
}

func TestComputeDette_ClassificationExclusive(t *testing.T) {
	// la classification couvre exactement un des quatre états
	cases := []struct {
		nom     string
		paye    float64
		limite  time.Time
		attendu recovery.DetteStatut
	}{
		{"regle avant retard", 100, now.AddDate(0, 0, -30), recovery.DetteRegle},
		{"retard avant urgent", 0, now.AddDate(0, 0, -1), recovery.DetteRetard},
		{"urgent borne 7 jours", 0, now.AddDate(0, 0, 7), recovery.DetteUrgent},
		{"en_cours au dela", 0, now.AddDate(0, 0, 8), recovery.DetteEnCours},
	}

	for _, tc := range cases {
		t.Run(tc.nom, func(t *testing.T) {
			d := recovery.ComputeDette(eleve(1), tranche(100, tc.limite), tc.paye, now)
			assert.Equal(t, tc.attendu, d.Statut)
			assert.True(t, d.Statut.Valid())
		})
	}
}

func TestComputeDette_FuseauxMixtes(t *testing.T) {
	// serveur à l'ouest d'UTC, échéance stockée à minuit UTC: le calcul
	// compare des jours calendaires, pas des instants. 8 jours devant,
	// donc en_cours, pas urgent.
	fuseau := time.FixedZone("UTC-5", -5*3600)
	nowLocal := time.Date(2026, time.January, 15, 22, 0, 0, 0, fuseau)
	limite := time.Date(2026, time.January, 23, 0, 0, 0, 0, time.UTC)

	d := recovery.ComputeDette(eleve(1), tranche(100, limite), 0, nowLocal)

	assert.Equal(t, 8, d.JoursRestants)
	assert.Equal(t, recovery.DetteEnCours, d.Statut)
}

func TestComputeDettes_TousStatutsEleves(t *testing.T) {
	// un élève transféré avec une tranche impayée reste dans le rapport
	// et dans les agrégats
	eleves := []recovery.EleveInfo{
		{ID: 1, Matricule: "MAT-001", NomComplet: "KABONGO Ilunga", ClasseID: 3, Classe: "6ème A", Statut: "actif"},
		{ID: 2, Matricule: "MAT-002", NomComplet: "MBUYI Tshala", ClasseID: 3, Classe: "6ème A", Statut: "transfere"},
	}
	paiements := map[uint]float64{1: 100}

	dettes := recovery.ComputeDettes(eleves, tranche(100, now.AddDate(0, 0, -3)), paiements, now)

	require.Len(t, dettes, 2)
	assert.Equal(t, "transfere", dettes[1].Eleve.Statut)
	assert.Equal(t, 100.0, dettes[1].ResteAPayer)
	assert.Equal(t, recovery.DetteRetard, dettes[1].Statut)

	stats := recovery.Aggregate(dettes)
	assert.Equal(t, 2, stats.TotalEleves)
	assert.Equal(t, 100.0, stats.TotalReste)
}

func TestComputeDettes_EleveSansPaiement(t *testing.T) {
	// un élève absent de la map des paiements doit à 0, pas nil
	eleves := []recovery.EleveInfo{eleve(1), eleve(2)}
	paiements := map[uint]float64{1: 50}

	dettes := recovery.ComputeDettes(eleves, tranche(100, now.AddDate(0, 1, 0)), paiements, now)

	require.Len(t, dettes, 2)
	assert.Equal(t, 50.0, dettes[0].MontantPaye)
	assert.Equal(t, 0.0, dettes[1].MontantPaye)
	assert.Equal(t, 100.0, dettes[1].ResteAPayer)
}

func TestFilterByStatut(t *testing.T) {
	eleves := []recovery.EleveInfo{eleve(1), eleve(2), eleve(3)}
	paiements := map[uint]float64{1: 100}
	dettes := recovery.ComputeDettes(eleves, tranche(100, now.AddDate(0, 0, -5)), paiements, now)

	regles := recovery.FilterByStatut(dettes, "regle")
	retards := recovery.FilterByStatut(dettes, "retard")
	tous := recovery.FilterByStatut(dettes, "tous")
	sansFiltre := recovery.FilterByStatut(dettes, "")

	assert.Len(t, regles, 1)
	assert.Len(t, retards, 2)
	assert.Len(t, tous, 3)
	assert.Len(t, sansFiltre, 3)
}

func TestAggregate(t *testing.T) {
	eleves := []recovery.EleveInfo{eleve(1), eleve(2), eleve(3), eleve(4)}
	paiements := map[uint]float64{1: 100, 2: 40}
	// échéance passée: les dettes ouvertes sont en retard
	dettes := recovery.ComputeDettes(eleves, tranche(100, now.AddDate(0, 0, -3)), paiements, now)

	stats := recovery.Aggregate(dettes)

	assert.Equal(t, 4, stats.TotalEleves)
	assert.Equal(t, 400.0, stats.TotalDette)
	assert.Equal(t, 140.0, stats.TotalPaye)
	assert.Equal(t, 260.0, stats.TotalReste)
	assert.InDelta(t, 35.0, stats.TauxRecouvrement, 0.001)
	assert.Equal(t, 1, stats.NombreRegles)
	assert.Equal(t, 3, stats.NombreEnRetard)
}

func TestAggregate_Surpaiement(t *testing.T) {
	// total payé > total dette: le taux dépasse 100 sans planter
	eleves := []recovery.EleveInfo{eleve(1)}
	paiements := map[uint]float64{1: 250}
	dettes := recovery.ComputeDettes(eleves, tranche(100, now.AddDate(0, 1, 0)), paiements, now)

	stats := recovery.Aggregate(dettes)

	assert.Equal(t, 250.0, stats.TotalPaye)
	assert.InDelta(t, 250.0, stats.TauxRecouvrement, 0.001)
}

func TestAggregate_Vide(t *testing.T) {
	stats := recovery.Aggregate(nil)

	assert.Equal(t, 0, stats.TotalEleves)
	assert.Equal(t, 0.0, stats.TauxRecouvrement)
}
