package googlesheets

import (
	"fmt"

	"giftforms/pkg/models"

	"google.golang.org/api/sheets/v4"
)

// ResponseExportService appends form responses as rows to an owner's
// spreadsheet. One row per claim line, so quantities stay summable in
// the sheet.
type ResponseExportService struct {
	sheetsService *sheets.Service
}

func NewResponseExportService(sheetsService *sheets.Service) *ResponseExportService {
	return &ResponseExportService{
		sheetsService: sheetsService,
	}
}

func (s *ResponseExportService) ExportResponses(spreadsheetID, sheetRange string, responseList []models.FormResponse) (int, error) {
	rows := BuildExportRows(responseList)
	if len(rows) == 0 {
		return 0, nil
	}

	valueRange := &sheets.ValueRange{Values: rows}

	_, err := s.sheetsService.Spreadsheets.Values.
		Append(spreadsheetID, sheetRange, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return 0, fmt.Errorf("cannot append to spreadsheet: %v", err)
	}

	return len(rows), nil
}
