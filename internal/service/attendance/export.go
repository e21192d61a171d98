package attendance

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var weeklyHeaders = []string{
	"Week Start", "Week End", "User ID", "First Name", "Last Name",
	"Total Hours", "Days Worked", "Average Daily Hours",
}

var dailyHeaders = []string{
	"Date", "User ID", "First Name", "Last Name",
	"Check In", "Check Out", "Hours Worked", "Absent", "Missing Checkout", "Anomaly",
}

// WriteWeeklyWorkbook renders the weekly report as XLSX with a "Weeks" sheet
// and a "Days" sheet holding the per-day breakdown.
func WriteWeeklyWorkbook(report attendance.WeeklyReportResponse, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	weeks, err := f.NewSheet("Weeks")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet("Days"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(weeks)

	writeRow(f, "Weeks", 1, toCells(weeklyHeaders))
	row := 2
	for _, wk := range report.Weeks {
		writeRow(f, "Weeks", row, []interface{}{
			wk.WeekStart, wk.WeekEnd, wk.UserID, wk.FirstName, wk.LastName,
			wk.TotalHours, wk.DaysWorked, wk.AverageDailyHours,
		})
		row++
	}

	writeRow(f, "Days", 1, toCells(dailyHeaders))
	row = 2
	for _, wk := range report.Weeks {
		for _, d := range wk.Days {
			writeRow(f, "Days", row, []interface{}{
				d.Date, d.UserID, wk.FirstName, wk.LastName,
				deref(d.CheckIn), deref(d.CheckOut), d.HoursWorked,
				d.IsAbsent, d.MissingCheckout, d.Anomaly,
			})
			row++
		}
	}

	_ = f.SetColWidth("Weeks", "A", "B", 12)
	_ = f.SetColWidth("Weeks", "C", "C", 38)
	_ = f.SetColWidth("Weeks", "D", "E", 18)
	_ = f.SetColWidth("Weeks", "F", "H", 14)
	_ = f.SetColWidth("Days", "A", "A", 12)
	_ = f.SetColWidth("Days", "B", "B", 38)
	_ = f.SetColWidth("Days", "C", "D", 18)
	_ = f.SetColWidth("Days", "E", "F", 26)
	_ = f.SetColWidth("Days", "G", "J", 16)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle("Weeks", "A1", "H1", style)
		_ = f.SetCellStyle("Days", "A1", "J1", style)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteKPIReport renders a KPI snapshot as a one page A4 PDF.
func WriteKPIReport(resp attendance.KPIResponse, generatedAt time.Time, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Attendance KPI Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Period: %s to %s", resp.StartDate, resp.EndDate))
	pdf.Ln(8)
	pdf.Cell(40, 10, fmt.Sprintf("Employees: %d", resp.Population))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 10, "Metric")
	pdf.Cell(90, 10, "Value")
	pdf.Ln(10)

	avg := "-"
	if resp.AverageCheckInTime != nil {
		avg = *resp.AverageCheckInTime
	}

	rows := []struct {
		label string
		value string
	}{
		{"Attendance rate", fmt.Sprintf("%.2f%%", resp.AttendanceRate)},
		{"Punctuality rate", fmt.Sprintf("%.2f%%", resp.PunctualityRate)},
		{"Late arrivals", fmt.Sprintf("%d", resp.LateArrivals)},
		{"Average check-in time", avg},
		{"Overtime hours", fmt.Sprintf("%.2f", resp.OvertimeHours)},
		{"Days worked", fmt.Sprintf("%d", resp.TotalDaysWorked)},
		{"Workdays in period", fmt.Sprintf("%d", resp.TotalWorkdays)},
		{"Checked in now", fmt.Sprintf("%d", resp.ActiveEmployeesToday)},
	}

	pdf.SetFont("Arial", "", 11)
	for _, r := range rows {
		pdf.Cell(90, 8, r.label)
		pdf.Cell(90, 8, r.value)
		pdf.Ln(8)
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 10, fmt.Sprintf("Generated at: %s", generatedAt.Format("02 January 2006 15:04:05 MST")))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
