package googlesheets

import (
	"time"

	"giftforms/pkg/models"
)

var exportHeader = []interface{}{
	"Submitted At",
	"Customer",
	"Email",
	"Seller",
	"Order Amount",
	"Item",
	"Quantity",
	"Item Price",
	"Notes",
}

// BuildExportRows flattens responses into spreadsheet rows, one per claim
// line, preceded by a header row. Responses without claim lines still get
// a row so the export stays a complete record.
func BuildExportRows(responseList []models.FormResponse) [][]interface{} {
	if len(responseList) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(responseList)+1)
	rows = append(rows, exportHeader)

	for _, response := range responseList {
		if len(response.Items) == 0 {
			rows = append(rows, exportRow(response, models.ClaimLine{}))
			continue
		}
		for _, line := range response.Items {
			rows = append(rows, exportRow(response, line))
		}
	}

	return rows
}

func exportRow(response models.FormResponse, line models.ClaimLine) []interface{} {
	itemName := line.ItemName
	var quantity, price interface{}
	if line.FormItemID != "" {
		quantity = line.Quantity
		price = line.ItemPrice
	} else {
		quantity = ""
		price = ""
	}

	return []interface{}{
		response.CreatedAt.Format(time.RFC3339),
		response.CustomerName,
		response.CustomerEmail,
		response.SellerName,
		response.OrderAmount,
		itemName,
		quantity,
		price,
		response.Notes,
	}
}
