package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Contacts"

var exportHeader = []interface{}{
	"First Name", "Last Name", "Phone Number", "Email", "Address", "Notes", "Created At", "Updated At",
}

// ExportService renders contacts as an XLSX workbook
type ExportService struct {
	contactService *ContactService
}

func NewExportService(contactService *ContactService) *ExportService {
	return &ExportService{
		contactService: contactService,
	}
}

// ExportXLSX writes the contacts matching query (all of them for a blank
// query) to w as a single-sheet workbook with a header row.
func (s *ExportService) ExportXLSX(ctx context.Context, query string, w io.Writer) (int, error) {
	list, err := s.contactService.ListContacts(ctx, query)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, headerStyle); err != nil {
		return 0, fmt.Errorf("style header: %w", err)
	}

	for i, contact := range list.Contacts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{
			contact.FirstName,
			contact.LastName,
			contact.FormattedPhoneNumber(),
			contact.Email,
			contact.Address,
			contact.Notes,
			contact.CreatedAt.Format(time.RFC3339),
			contact.UpdatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "H", 20); err != nil {
		return 0, fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(list.Contacts), nil
}
