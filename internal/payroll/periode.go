package payroll

import (
	"fmt"
	"time"
)

var moisFrancais = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// ParsePeriode - "AAAA-MM" -> bornes du mois calendaire [debut, fin).
func ParsePeriode(periode string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", periode)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("periode invalide, format attendu AAAA-MM")
	}
	debut := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	fin := debut.AddDate(0, 1, 0)
	return debut, fin, nil
}

// PeriodeLabel - "2026-01" -> "janvier 2026".
func PeriodeLabel(periode string) string {
	t, err := time.Parse("2006-01", periode)
	if err != nil {
		return periode
	}
	return fmt.Sprintf("%s %d", moisFrancais[int(t.Month())-1], t.Year())
}
