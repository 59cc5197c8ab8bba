package recovery

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"ecole-backend/internal/config"
	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ErrExportVide - aucun élève après filtres/sélection, un export vide
// n'a pas de sens.
var ErrExportVide = errors.New("aucune donnée à exporter")

type ExportFilters struct {
	ClasseID uint   `json:"classe_id"`
	Statut   string `json:"statut"`
}

type ExportRequest struct {
	TrancheID uint          `json:"tranche_id"`
	Format    string        `json:"format"` // pdf | excel
	Filters   ExportFilters `json:"filters"`
	Selection []uint        `json:"selection"` // ids élèves, sélection manuelle
}

func libelleStatut(s DetteStatut) string {
	switch s {
	case DetteRegle:
		return "Réglé"
	case DetteRetard:
		return "En retard"
	case DetteUrgent:
		return "Urgent"
	default:
		return "En cours"
	}
}

// restrictToSelection - ne garde que les élèves explicitement cochés.
func restrictToSelection(dettes []Dette, selection []uint) []Dette {
	if len(selection) == 0 {
		return dettes
	}
	keep := make(map[uint]bool, len(selection))
	for _, id := range selection {
		keep[id] = true
	}
	out := make([]Dette, 0, len(dettes))
	for _, d := range dettes {
		if keep[d.Eleve.ID] {
			out = append(out, d)
		}
	}
	return out
}

// BuildExcel - classeur xlsx: une ligne par élève + bloc de totaux.
func BuildExcel(schoolName, trancheNom string, dettes []Dette, stats Stats) ([]byte, error) {
	if len(dettes) == 0 {
		return nil, ErrExportVide
	}

	f := excelize.NewFile()
	sheet := "Recouvrement"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", schoolName)
	f.SetCellValue(sheet, "A2", "État de recouvrement - "+trancheNom)

	headers := []string{"Matricule", "Nom complet", "Classe", "Montant dû",
		"Montant payé", "Reste à payer", "% payé", "Statut", "Jours restants"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
	}

	for i, d := range dettes {
		row := i + 5
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.Eleve.Matricule)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.Eleve.NomComplet)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.Eleve.Classe)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), d.MontantTotal)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), d.MontantPaye)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), d.ResteAPayer)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("%.1f%%", d.PourcentagePaye))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), libelleStatut(d.Statut))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), d.JoursRestants)
	}

	base := len(dettes) + 6
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Totaux")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base), fmt.Sprintf("%d élèves", stats.TotalEleves))
	f.SetCellValue(sheet, fmt.Sprintf("D%d", base), stats.TotalDette)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", base), stats.TotalPaye)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", base), stats.TotalReste)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", base), fmt.Sprintf("%.1f%%", stats.TauxRecouvrement))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), fmt.Sprintf("Réglés: %d", stats.NombreRegles))
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), fmt.Sprintf("En retard: %d", stats.NombreEnRetard))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF - même tableau en A4 paysage.
func BuildPDF(schoolName, trancheNom string, dettes []Dette, stats Stats) ([]byte, error) {
	if len(dettes) == 0 {
		return nil, ErrExportVide
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(schoolName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr("État de recouvrement - "+trancheNom), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	widths := []float64{28, 62, 30, 28, 28, 28, 20, 26, 24}
	headers := []string{"Matricule", "Nom complet", "Classe", "Montant dû",
		"Payé", "Reste", "% payé", "Statut", "Jours"}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, d := range dettes {
		cols := []string{
			d.Eleve.Matricule,
			d.Eleve.NomComplet,
			d.Eleve.Classe,
			fmt.Sprintf("%.2f", d.MontantTotal),
			fmt.Sprintf("%.2f", d.MontantPaye),
			fmt.Sprintf("%.2f", d.ResteAPayer),
			fmt.Sprintf("%.1f%%", d.PourcentagePaye),
			libelleStatut(d.Statut),
			fmt.Sprintf("%d", d.JoursRestants),
		}
		for i, col := range cols {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(col), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf(
		"Total: %d élèves | Dette: %.2f | Payé: %.2f | Reste: %.2f | Taux de recouvrement: %.1f%% | Réglés: %d | En retard: %d",
		stats.TotalEleves, stats.TotalDette, stats.TotalPaye, stats.TotalReste,
		stats.TauxRecouvrement, stats.NombreRegles, stats.NombreEnRetard,
	)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// POST /api/recouvrement/export
func ExportHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ExportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.TrancheID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "tranche_id obligatoire")
		}
		if body.Format != "pdf" && body.Format != "excel" {
			return fiber.NewError(fiber.StatusBadRequest, "format doit être pdf ou excel")
		}
		if s := body.Filters.Statut; s != "" && s != StatutTous && !DetteStatut(s).Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
		}

		var tranche models.Tranche
		if err := database.DB.First(&tranche, "id = ?", body.TrancheID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tranche introuvable")
		}

		dettes, err := loadDettes(tranche, body.Filters.ClasseID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Calcul du recouvrement impossible")
		}
		dettes = FilterByStatut(dettes, body.Filters.Statut)
		dettes = restrictToSelection(dettes, body.Selection)

		stats := Aggregate(dettes)

		var (
			data        []byte
			contentType string
			filename    string
		)
		switch body.Format {
		case "excel":
			data, err = BuildExcel(cfg.SchoolName, tranche.Nom, dettes, stats)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			filename = fmt.Sprintf("recouvrement_%d.xlsx", tranche.ID)
		default:
			data, err = BuildPDF(cfg.SchoolName, tranche.Nom, dettes, stats)
			contentType = "application/pdf"
			filename = fmt.Sprintf("recouvrement_%d.pdf", tranche.ID)
		}
		if errors.Is(err, ErrExportVide) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Aucune donnée à exporter avec ces filtres")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export non généré")
		}

		c.Set("Content-Type", contentType)
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(data)
	}
}
