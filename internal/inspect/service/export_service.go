package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
)

var historyExportHeaders = []string{
	"ID", "Facility Name", "Inspection Date", "Risk Level", "Risk Rating",
	"Status", "Findings", "Critical", "Major", "Source", "Submitted At",
}

// ExportService turns the merged inspection history into a workbook.
type ExportService struct {
	inspections *InspectionService
}

func NewExportService(inspections *InspectionService) *ExportService {
	return &ExportService{inspections: inspections}
}

// ExportHistory writes the full history, one row per record, newest
// first as List returns it.
func (s *ExportService) ExportHistory(ctx context.Context) (*excelize.File, string, error) {
	records, err := s.inspections.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list inspections: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inspection History"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range historyExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx := range records {
		rec := &records[rowIdx]
		row := rowIdx + 2

		var critical, major int
		if findings, err := rec.DecodeFindings(); err == nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), len(findings))
			for _, finding := range findings {
				switch finding.Classification {
				case entity.ClassificationCritical:
					critical++
				case entity.ClassificationMajor:
					major++
				}
			}
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rec.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rec.FacilityName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), rec.InspectionDate)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rec.RiskLevel)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), rec.RiskRating)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), rec.Status)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), critical)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), major)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), rec.Source)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), rec.Timestamp.Format("02-01-2006 15:04"))
	}

	colWidths := []float64{38, 28, 14, 10, 10, 12, 10, 8, 8, 8, 18}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	return f, "Inspection_History.xlsx", nil
}
