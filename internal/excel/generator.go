package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/inymo/project-performance/internal/service"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Render builds the performance workbook: a summary sheet with the derived
// indicators, plus expense-ledger, deliverable and change-request detail
// sheets.
func (g *Generator) Render(data service.ReportData) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, data); err != nil {
		return nil, err
	}

	expenseSheet := "Expenses"
	file.NewSheet(expenseSheet)
	if err := g.writeExpenses(file, expenseSheet, data); err != nil {
		return nil, err
	}

	deliverableSheet := "Deliverables"
	file.NewSheet(deliverableSheet)
	if err := g.writeDeliverables(file, deliverableSheet, data); err != nil {
		return nil, err
	}

	changeSheet := "Change Requests"
	file.NewSheet(changeSheet)
	if err := g.writeChanges(file, changeSheet, data); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, data service.ReportData) error {
	d := data.Dashboard

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Project")
	set("B1", fmt.Sprintf("%s — %s", d.Code, d.Name))
	set("A2", "Client")
	set("B2", d.Client)
	set("A3", "Lead")
	set("B3", d.Lead)
	set("A4", "Phase")
	set("B4", d.Phase)
	set("A5", "Progress")
	set("B5", fmt.Sprintf("%d%%", d.ProgressPct))
	set("A6", "Generated")
	set("B6", formatDate(data.GeneratedAt))

	tableRow := 8
	set(fmt.Sprintf("A%d", tableRow), "Indicator")
	set(fmt.Sprintf("B%d", tableRow), "Value")

	rows := [][2]string{
		{"Budget at completion (BAC)", d.KPI.BAC},
		{"Planned value (PV)", d.KPI.PV},
		{"Earned value (EV)", d.KPI.EV},
		{"Actual cost (AC)", d.KPI.AC},
		{"Cost variance (CV)", d.KPI.CostVariance},
		{"Schedule variance (SV)", d.KPI.ScheduleVariance},
		{"Estimate at completion (EAC)", d.KPI.EAC},
		{"SPI", d.KPI.SPI},
		{"CPI", d.KPI.CPI},
		{"Diagnosis", d.KPI.Diagnosis},
		{"Adjusted completion", d.KPI.AdjustedEnd},
	}
	for i, row := range rows {
		set(fmt.Sprintf("A%d", tableRow+1+i), row[0])
		set(fmt.Sprintf("B%d", tableRow+1+i), row[1])
	}

	_ = file.SetColWidth(sheet, "A", "A", 36)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func (g *Generator) writeExpenses(file *excelize.File, sheet string, data service.ReportData) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Date", "Concept", "Author", "Amount"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	total := 0.0
	for i, expense := range data.Expenses {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), formatDateTime(expense.LoggedAt))
		set(fmt.Sprintf("B%d", row), expense.Title)
		set(fmt.Sprintf("C%d", row), expense.Author)
		set(fmt.Sprintf("D%d", row), expense.Amount)
		total += expense.Amount
	}

	totalRow := len(data.Expenses) + 3
	set(fmt.Sprintf("A%d", totalRow), "Total")
	set(fmt.Sprintf("D%d", totalRow), total)

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "C", 24)
	_ = file.SetColWidth(sheet, "D", "D", 16)
	return nil
}

func (g *Generator) writeDeliverables(file *excelize.File, sheet string, data service.ReportData) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Deliverable", "Owner", "Due", "Progress", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, deliverable := range data.Deliverables {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), deliverable.Name)
		set(fmt.Sprintf("B%d", row), deliverable.Owner)
		if deliverable.DueAt != nil {
			set(fmt.Sprintf("C%d", row), formatDate(*deliverable.DueAt))
		}
		set(fmt.Sprintf("D%d", row), fmt.Sprintf("%d%%", deliverable.ProgressPct))
		set(fmt.Sprintf("E%d", row), string(deliverable.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	_ = file.SetColWidth(sheet, "C", "E", 16)
	return nil
}

func (g *Generator) writeChanges(file *excelize.File, sheet string, data service.ReportData) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Date", "Change", "Cost impact", "Schedule impact (days)", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, change := range data.Changes {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), formatDateTime(change.LoggedAt))
		set(fmt.Sprintf("B%d", row), change.Title)
		set(fmt.Sprintf("C%d", row), change.CostImpact)
		set(fmt.Sprintf("D%d", row), change.ScheduleImpactDays)
		set(fmt.Sprintf("E%d", row), string(change.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "E", 20)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
