// Package export renders the staff roster as a spreadsheet.
package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/staff-directory/internal/presentation"
)

// SheetName is the single worksheet of a roster export.
const SheetName = "Staff"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var rosterHeader = []string{"Staff Code", "Name", "Email", "Role", "Venue", "Access Level", "Employment Type", "Status"}

// Roster writes rows to an XLSX workbook with a header line.
func Roster(rows []presentation.StaffRow) (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	if err := setRow(file, 1, rosterHeader); err != nil {
		return nil, err
	}
	for i, row := range rows {
		values := []string{row.StaffCode, row.Name, row.Email, row.RoleTitle, row.Venue, row.AccessLevel, row.EmploymentType, row.Status}
		if err := setRow(file, i+2, values); err != nil {
			return nil, err
		}
	}
	if err := file.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	return file.WriteToBuffer()
}

func setRow(file *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return file.SetSheetRow(SheetName, cell, &values)
}
