package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/logistica/partes-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the reports of one period into a workbook: a summary
// sheet plus one sheet per parte with its line table.
func (g *Generator) Generate(reports []model.WorkReport, from, to time.Time) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumen"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, reports, from, to); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, report := range reports {
		sheetName := buildSheetName(report, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeReport(file, sheetName, report); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, reports []model.WorkReport, from, to time.Time) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Inicio del periodo")
	set("B1", formatDate(from))
	set("A2", "Fin del periodo")
	set("B2", formatDate(to))
	set("A3", "Número de partes")
	set("B3", len(reports))
	set("A4", "Toneladas totales")
	set("B4", fmt.Sprintf("%.2f", sumTonnage(reports)))

	tableRow := 6
	headers := []string{"Fecha", "Matrícula", "Conductor", "Transportista", "Kilómetros", "Estado", "Líneas", "Toneladas"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, report := range reports {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(report.Date))
		set(fmt.Sprintf("B%d", row), report.VehiclePlate)
		set(fmt.Sprintf("C%d", row), report.DriverName)
		set(fmt.Sprintf("D%d", row), report.CarrierName)
		set(fmt.Sprintf("E%d", row), report.Kilometers)
		set(fmt.Sprintf("F%d", row), string(report.Status))
		set(fmt.Sprintf("G%d", row), len(report.Lines))
		set(fmt.Sprintf("H%d", row), fmt.Sprintf("%.2f", reportTonnage(report)))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 14)
	_ = file.SetColWidth(sheet, "C", "D", 28)
	_ = file.SetColWidth(sheet, "E", "H", 12)
	return nil
}

func (g *Generator) writeReport(file *excelize.File, sheet string, report model.WorkReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Fecha")
	set("B1", formatDate(report.Date))
	set("A2", "Matrícula")
	set("B2", report.VehiclePlate)
	set("A3", "Conductor")
	set("B3", report.DriverName)
	set("A4", "Transportista")
	set("B4", report.CarrierName)
	set("A5", "Kilómetros")
	set("B5", report.Kilometers)
	set("A6", "Estado")
	set("B6", string(report.Status))

	tableRow := 8
	headers := []string{
		"Cliente",
		"Lugar de carga",
		"Lugar de descarga",
		"Espera",
		"Trabajo",
		"Toneladas",
		"Material",
		"Jornada",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, line := range report.Lines {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), line.Client)
		set(fmt.Sprintf("B%d", row), line.LoadingPlace)
		set(fmt.Sprintf("C%d", row), line.UnloadingPlace)
		set(fmt.Sprintf("D%d", row), line.WaitTime)
		set(fmt.Sprintf("E%d", row), line.WorkTime)
		set(fmt.Sprintf("F%d", row), line.Tonnage)
		set(fmt.Sprintf("G%d", row), line.Material)
		set(fmt.Sprintf("H%d", row), string(line.Shift))
	}

	_ = file.SetColWidth(sheet, "A", "C", 26)
	_ = file.SetColWidth(sheet, "D", "F", 12)
	_ = file.SetColWidth(sheet, "G", "H", 18)
	return nil
}

func buildSheetName(report model.WorkReport, used map[string]struct{}) string {
	base := fmt.Sprintf("Parte %s - %s", report.Date.Format("2006-01-02"), strings.TrimSpace(report.DriverName))
	if strings.TrimSpace(report.DriverName) == "" {
		base = fmt.Sprintf("Parte %s - %s", report.Date.Format("2006-01-02"), report.ID.String())
	}
	base = sanitizeSheetName(base)
	base = truncateRunes(base, 31)

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		nameCandidate = truncateRunes(base, 31-len(suffix)) + suffix
		counter++
	}
}

// truncateRunes caps the name by character count. Excel's 31-char sheet
// limit counts characters, and byte slicing could split an accented
// rune in a driver name.
func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Parte"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Parte"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func reportTonnage(report model.WorkReport) float64 {
	total := 0.0
	for _, line := range report.Lines {
		total += line.Tonnage
	}
	return total
}

func sumTonnage(reports []model.WorkReport) float64 {
	total := 0.0
	for _, report := range reports {
		total += reportTonnage(report)
	}
	return total
}
