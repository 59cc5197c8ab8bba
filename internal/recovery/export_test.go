package recovery_test

import (
	"bytes"
	"testing"
	"time"

	"ecole-backend/internal/recovery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func detteExemple() []recovery.Dette {
	eleves := []recovery.EleveInfo{
		{ID: 1, Matricule: "MAT-001", NomComplet: "KABONGO Ilunga", ClasseID: 3, Classe: "6ème A"},
		{ID: 2, Matricule: "MAT-002", NomComplet: "MBUYI Tshala", ClasseID: 3, Classe: "6ème A"},
	}
	tr := recovery.TrancheInfo{ID: 1, Nom: "1ère tranche", Montant: 100,
		DateLimite: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)}
	return recovery.ComputeDettes(eleves, tr, map[uint]float64{1: 100},
		time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))
}

func TestBuildExcel(t *testing.T) {
	dettes := detteExemple()
	stats := recovery.Aggregate(dettes)

	data, err := recovery.BuildExcel("Complexe Scolaire Test", "1ère tranche", dettes, stats)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// le classeur doit se rouvrir et contenir les lignes élèves
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Recouvrement")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(rows), 6) // en-têtes + 2 élèves + totaux

	val, err := f.GetCellValue("Recouvrement", "A5")
	require.NoError(t, err)
	assert.Equal(t, "MAT-001", val)
}

func TestBuildExcel_Vide(t *testing.T) {
	_, err := recovery.BuildExcel("Ecole", "Tranche", nil, recovery.Stats{})
	assert.ErrorIs(t, err, recovery.ErrExportVide)
}

func TestBuildPDF(t *testing.T) {
	dettes := detteExemple()
	stats := recovery.Aggregate(dettes)

	data, err := recovery.BuildPDF("Complexe Scolaire Test", "1ère tranche", dettes, stats)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildPDF_Vide(t *testing.T) {
	_, err := recovery.BuildPDF("Ecole", "Tranche", []recovery.Dette{}, recovery.Stats{})
	assert.ErrorIs(t, err, recovery.ErrExportVide)
}
