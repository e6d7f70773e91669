package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

// WritePDF renders the calculation report as an A4 PDF.
func WritePDF(w io.Writer, in Input) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Hydraulic Calculation Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.ProjectName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Network: %s", in.NetworkName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	widths := []float64{45, 38, 28, 30, 30, 28, 30, 38}

	pdf.SetFont("Helvetica", "B", 10)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range in.Pipes {
		row := pipeRow(p)
		for i, value := range row {
			text := ""
			switch v := value.(type) {
			case string:
				text = v
			case float64:
				text = fmt.Sprintf("%.4g", v)
			}
			pdf.CellFormat(widths[i], 7, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if in.Summary != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, "Summary")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Pipes calculated: %d", in.Summary.PipesCalculated))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Total flow rate: %.2f L/min", in.Summary.TotalFlowLPM))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Total pressure loss: %.4f bar", in.Summary.TotalPressureLossBar))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Total fixture units: %.1f", in.Summary.TotalFixtureUnits))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Probable demand: %.1f L/min", in.Summary.ProbableDemandLPM))
	}

	return pdf.Output(w)
}
