package payroll_test

import (
	"testing"
	"time"

	"ecole-backend/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriode(t *testing.T) {
	debut, fin, err := payroll.ParsePeriode("2026-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), debut)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), fin)
}

func TestParsePeriode_Decembre(t *testing.T) {
	debut, fin, err := payroll.ParsePeriode("2025-12")
	require.NoError(t, err)

	assert.Equal(t, time.December, debut.Month())
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), fin)
}

func TestParsePeriode_Invalide(t *testing.T) {
	cases := []string{"2026", "01-2026", "2026-13", "abc", ""}
	for _, c := range cases {
		_, _, err := payroll.ParsePeriode(c)
		assert.Error(t, err, c)
	}
}

func TestPeriodeLabel(t *testing.T) {
	assert.Equal(t, "janvier 2026", payroll.PeriodeLabel("2026-01"))
	assert.Equal(t, "août 2025", payroll.PeriodeLabel("2025-08"))
	assert.Equal(t, "décembre 2025", payroll.PeriodeLabel("2025-12"))
	// entrée illisible: renvoyée telle quelle
	assert.Equal(t, "n'importe quoi", payroll.PeriodeLabel("n'importe quoi"))
}
