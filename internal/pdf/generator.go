package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/inymo/project-performance/internal/model"
	"github.com/inymo/project-performance/internal/service"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Render produces the executive performance report: identity header,
// indicator table, diagnosis and the ledger extract.
func (g *Generator) Render(data service.ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	d := data.Dashboard

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Project Performance Report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s — %s", d.Code, d.Name), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", formatDate(data.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Identity", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	for _, line := range []string{
		fmt.Sprintf("Client: %s", safeValue(d.Client)),
		fmt.Sprintf("Lead: %s", safeValue(d.Lead)),
		fmt.Sprintf("Phase: %s", safeValue(d.Phase)),
		fmt.Sprintf("Progress: %d%%", d.ProgressPct),
		fmt.Sprintf("Adjusted completion: %s", safeValue(d.KPI.AdjustedEnd)),
	} {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Earned-value indicators", "", 1, "L", false, 0, "")

	headers := []string{"Indicator", "Value"}
	colWidths := []float64{90, 90}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	rows := [][]string{
		{"Budget at completion (BAC)", d.KPI.BAC},
		{"Planned value (PV)", d.KPI.PV},
		{"Earned value (EV)", d.KPI.EV},
		{"Actual cost (AC)", d.KPI.AC},
		{"Cost variance (CV)", d.KPI.CostVariance},
		{"Schedule variance (SV)", d.KPI.ScheduleVariance},
		{"Estimate at completion (EAC)", d.KPI.EAC},
		{"Schedule performance index (SPI)", d.KPI.SPI},
		{"Cost performance index (CPI)", d.KPI.CPI},
	}
	for _, row := range rows {
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Diagnosis: %s", d.KPI.Diagnosis), "", 1, "L", false, 0, "")
	if d.KPI.SlipDays != 0 {
		days, label := d.KPI.SlipDays, "ahead of plan"
		if days < 0 {
			days, label = -days, "behind plan"
			pdf.SetTextColor(200, 0, 0)
		}
		pdf.MultiCell(0, 6, fmt.Sprintf("Estimated schedule deviation: %d days %s.", days, label), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Deliverables", "", 1, "L", false, 0, "")
	delivWidths := []float64{90, 45, 45}
	drawTableRow(pdf, g.fontName, []string{"Deliverable", "Progress", "Status"}, delivWidths, true)
	for _, deliverable := range data.Deliverables {
		drawTableRow(pdf, g.fontName, []string{
			deliverable.Name,
			fmt.Sprintf("%d%%", deliverable.ProgressPct),
			string(deliverable.Status),
		}, delivWidths, false)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Approved changes", "", 1, "L", false, 0, "")
	changeWidths := []float64{90, 45, 45}
	drawTableRow(pdf, g.fontName, []string{"Change", "Cost impact", "Schedule impact"}, changeWidths, true)
	for _, change := range data.Changes {
		if change.Status != model.ChangeStatusApproved {
			continue
		}
		drawTableRow(pdf, g.fontName, []string{
			change.Title,
			formatAmount(change.CostImpact, 2),
			fmt.Sprintf("%d days", change.ScheduleImpactDays),
		}, changeWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}
