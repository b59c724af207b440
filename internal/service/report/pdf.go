package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin    = 50.0
	pdfRowHeight = 18.0
	// Rows never extend below this y position; the next one starts a new page.
	pdfTableBottom = 500.0
)

var (
	pdfColumns   = []string{"No", "Emp. No", "Name", "Department", "Present", "Excused", "Sick", "Absent", "Late", "Overtime", "%"}
	pdfColWidths = []float64{30, 60, 120, 80, 40, 40, 40, 40, 60, 60, 40}
)

// WritePDF renders the report as an A4 landscape table.
func WritePDF(w io.Writer, rep report.MonthlyReport, printedAt time.Time) error {
	pdf := renderPDF(rep, printedAt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func renderPDF(rep report.MonthlyReport, printedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 24, "MONTHLY ATTENDANCE REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 16, "Period: "+rep.Period, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 14, fmt.Sprintf("Total Working Days: %d", rep.Summary.WorkingDays), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 14, fmt.Sprintf("Total Employees: %d", rep.Summary.TotalEmployees), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	writePDFHeader(pdf)

	pdf.SetFont("Arial", "", 9)
	for i, row := range rep.Report {
		if pdf.GetY()+pdfRowHeight > pdfTableBottom {
			pdf.AddPage()
			writePDFHeader(pdf)
			pdf.SetFont("Arial", "", 9)
		}

		cells := []string{
			strconv.Itoa(i + 1),
			row.EmployeeNumber,
			row.Name,
			row.Department,
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Excused),
			strconv.Itoa(row.Sick),
			strconv.Itoa(row.Absent),
			row.LateFormatted,
			row.OvertimeFormatted,
			strconv.Itoa(row.AttendancePercentage) + "%",
		}
		for j, cell := range cells {
			pdf.CellFormat(pdfColWidths[j], pdfRowHeight, fitCell(pdf, tr(cell), pdfColWidths[j]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 10, "Printed at: "+printedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")

	return pdf
}

func writePDFHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, col := range pdfColumns {
		pdf.CellFormat(pdfColWidths[i], pdfRowHeight, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// fitCell truncates text that would overflow its column.
func fitCell(pdf *gofpdf.Fpdf, text string, width float64) string {
	const padding = 4
	if pdf.GetStringWidth(text)+padding <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...")+padding > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
