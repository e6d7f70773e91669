package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Hydraulics"

// WriteXLSX renders the calculation report as an XLSX workbook.
func WriteXLSX(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "Project"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "B1", in.ProjectName)
	f.SetCellValue(sheetName, "A2", "Network")
	f.SetCellValue(sheetName, "B2", in.NetworkName)

	headerRow := 4
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}

	for r, p := range in.Pipes {
		for c, value := range pipeRow(p) {
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if in.Summary != nil {
		row := headerRow + len(in.Pipes) + 3
		entries := []struct {
			label string
			value any
		}{
			{"Pipes calculated", in.Summary.PipesCalculated},
			{"Total flow rate (L/min)", in.Summary.TotalFlowLPM},
			{"Total pressure loss (bar)", in.Summary.TotalPressureLossBar},
			{"Total fixture units", in.Summary.TotalFixtureUnits},
			{"Probable demand (L/min)", in.Summary.ProbableDemandLPM},
		}
		for i, e := range entries {
			labelCell, err := excelize.CoordinatesToCellName(1, row+i)
			if err != nil {
				return err
			}
			valueCell, err := excelize.CoordinatesToCellName(2, row+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, labelCell, e.label); err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, valueCell, e.value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
