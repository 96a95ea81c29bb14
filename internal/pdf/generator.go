package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/logistica/partes-service/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders one parte de trabajo as a printable A4 document:
// header fields, the line table and signature blocks.
func (g *Generator) Generate(report model.WorkReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Core fonts are cp1252 only; Spanish text needs the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Parte de trabajo"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Fecha: %s", formatDate(report.Date))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Estado: %s", report.Status)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Datos del parte"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Matrícula: %s", report.VehiclePlate)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Conductor: %s", report.DriverName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Transportista: %s", report.CarrierName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Kilómetros: %.2f", report.Kilometers)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Líneas"), "", 1, "L", false, 0, "")

	headers := []string{"Cliente", "Carga", "Descarga", "Espera", "Trabajo", "Toneladas", "Material", "Jornada"}
	colWidths := []float64{48, 42, 42, 20, 20, 24, 40, 26}
	drawTableRow(pdf, g.fontName, tr, headers, colWidths, true)

	for _, line := range report.Lines {
		row := []string{
			line.Client,
			line.LoadingPlace,
			line.UnloadingPlace,
			line.WaitTime,
			line.WorkTime,
			fmt.Sprintf("%.2f", line.Tonnage),
			line.Material,
			shiftLabel(line.Shift),
		}
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Toneladas totales: %.2f", totalTonnage(report))), "", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Firmas"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Conductor: ______________________ /%s/", report.DriverName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Transportista: ______________________ /%s/", report.CarrierName)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i >= 3 && i <= 5 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func shiftLabel(shift model.Shift) string {
	switch shift {
	case model.ShiftMorning:
		return "Mañana"
	case model.ShiftAfternoon:
		return "Tarde"
	case model.ShiftNight:
		return "Noche"
	case model.ShiftFull:
		return "Completa"
	default:
		return string(shift)
	}
}

func totalTonnage(report model.WorkReport) float64 {
	total := 0.0
	for _, line := range report.Lines {
		total += line.Tonnage
	}
	return total
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
