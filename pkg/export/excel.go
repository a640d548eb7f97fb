// Package export renders monthly follow-up and yearly recap workbooks.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"suivitjm/pkg/recap"
)

// Fill color per month, so a sheet mixing periods stays readable.
var monthFills = map[string]string{
	"01": "FFDDDD",
	"02": "FFF4CC",
	"03": "DFFFD6",
	"04": "D6EAF8",
	"05": "E5CCFF",
	"06": "FFD6E5",
	"07": "FFD699",
	"08": "EAEAEA",
	"09": "D6CCFF",
	"10": "B8E2DC",
	"11": "E5FFC2",
	"12": "D6F5FF",
}

var monthlyHeaders = []string{
	"Nom",
	"Projets",
	"Jours Travaillés par Projet",
	"TJM par Projet (€)",
	"Total Jours Travaillés",
	"TJM Total (€)",
	"Commentaires",
	"Mois",
}

var monthlyColWidths = []float64{20, 40, 25, 25, 20, 20, 30, 10}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatEuros(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " €"
}

func rowStyle(f *excelize.File, fill string) (int, error) {
	thin := func(t string) excelize.Border {
		return excelize.Border{Type: t, Style: 1, Color: "000000"}
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Border: []excelize.Border{
			thin("top"), thin("bottom"), thin("left"), thin("right"),
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func headerStyle(f *excelize.File) (int, error) {
	thin := func(t string) excelize.Border {
		return excelize.Border{Type: t, Style: 1, Color: "000000"}
	}
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			thin("top"), thin("bottom"), thin("left"), thin("right"),
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

// MonthlyWorkbook renders one row per collaborator for the given period.
// Project columns are flattened to readable strings; a nil daily rate shows
// "Non défini" and never contributes to the cost column.
func MonthlyWorkbook(views []recap.MonthlyView, month string, year int) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "Suivi")
	sheet = "Suivi"

	for i, h := range monthlyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, monthlyColWidths[i]); err != nil {
			return nil, err
		}
	}
	hs, err := headerStyle(f)
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(monthlyHeaders))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", hs); err != nil {
		return nil, err
	}

	fill, ok := monthFills[month]
	if !ok {
		fill = "FFFFFF"
	}
	rs, err := rowStyle(f, fill)
	if err != nil {
		return nil, err
	}

	for i, v := range views {
		row := i + 2
		totalDays := 0.0
		names := make([]string, 0, len(v.Projects))
		perProjectDays := make([]string, 0, len(v.Projects))
		perProjectCost := make([]string, 0, len(v.Projects))
		for _, p := range v.Projects {
			totalDays += p.DaysWorked
			name := p.Name
			if name == "" {
				name = "Projet supprimé"
			}
			names = append(names, name)
			perProjectDays = append(perProjectDays, fmt.Sprintf("%s: %s jours", name, formatDays(p.DaysWorked)))
			if v.DailyRate != nil {
				perProjectCost = append(perProjectCost, formatEuros(p.DaysWorked**v.DailyRate))
			} else {
				perProjectCost = append(perProjectCost, "Non défini")
			}
		}

		projets := strings.Join(names, ", ")
		if projets == "" {
			projets = "Aucun projet"
		}
		jours := strings.Join(perProjectDays, ", ")
		if jours == "" {
			jours = "Aucun"
		}
		couts := strings.Join(perProjectCost, ", ")
		if couts == "" {
			couts = "Non défini"
		}
		totalCost := "Non défini"
		if v.DailyRate != nil {
			totalCost = formatEuros(totalDays * *v.DailyRate)
		}
		comment := v.Comment
		if comment == "" {
			comment = "Aucun commentaire"
		}

		values := []interface{}{v.Name, projets, jours, couts, totalDays, totalCost, comment, month}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellStyle(sheet, "A"+strconv.Itoa(row), lastCol+strconv.Itoa(row), rs); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// RecapWorkbook renders the yearly recap: one row per (month, project) cost
// plus a bold total row per month, rows tinted with the month's fill.
func RecapWorkbook(recaps []recap.MonthRecap, year int) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, fmt.Sprintf("Recap %d", year))
	sheet = fmt.Sprintf("Recap %d", year)

	headers := []string{"Mois", "Projet", "Coût (€)"}
	widths := []float64{10, 40, 18}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, err
		}
	}
	hs, err := headerStyle(f)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", hs); err != nil {
		return nil, err
	}

	row := 2
	for _, mr := range recaps {
		fill, ok := monthFills[mr.Month]
		if !ok {
			fill = "FFFFFF"
		}
		rs, err := rowStyle(f, fill)
		if err != nil {
			return nil, err
		}
		for _, p := range mr.Projects {
			name := p.Name
			if name == "" {
				name = "Projet supprimé"
			}
			f.SetCellValue(sheet, "A"+strconv.Itoa(row), mr.Month)
			f.SetCellValue(sheet, "B"+strconv.Itoa(row), name)
			f.SetCellValue(sheet, "C"+strconv.Itoa(row), p.TotalCost)
			if err := f.SetCellStyle(sheet, "A"+strconv.Itoa(row), "C"+strconv.Itoa(row), rs); err != nil {
				return nil, err
			}
			row++
		}
		f.SetCellValue(sheet, "A"+strconv.Itoa(row), mr.Month)
		f.SetCellValue(sheet, "B"+strconv.Itoa(row), "Total du mois")
		f.SetCellValue(sheet, "C"+strconv.Itoa(row), mr.TotalMonthCost)
		if err := f.SetCellStyle(sheet, "A"+strconv.Itoa(row), "C"+strconv.Itoa(row), hs); err != nil {
			return nil, err
		}
		row++
	}
	return f, nil
}
