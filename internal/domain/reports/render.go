package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

func RenderPDF(w io.Writer, report UserReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Performance Appraisal Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Employee: %s", report.User.Name)))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Department: %s", report.User.Department)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 9, "Goals Summary")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	for _, g := range sortedGoals(report.Goals) {
		pdf.Cell(0, 6, tr(fmt.Sprintf("- %s - %s", g.Title, g.Status)))
		pdf.Ln(6)
		if g.AchievementRating != nil {
			pdf.Cell(0, 6, fmt.Sprintf("  Rating: %d/5", *g.AchievementRating))
			pdf.Ln(6)
		}
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 9, "Performance Evaluations")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	for _, e := range report.Evaluations {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Review Period: %s (%s)", e.ReviewPeriod, e.EvaluationType)))
		pdf.Ln(6)
		if e.OverallScore != nil && *e.OverallScore != 0 {
			pdf.Cell(0, 6, fmt.Sprintf("Overall Score: %g/5", *e.OverallScore))
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	return pdf.Output(w)
}

func WriteCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
