package googlesheets

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"giftforms/internal/forms"
	"giftforms/internal/responses"

	"google.golang.org/api/sheets/v4"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleSheetsHandler struct {
	exporter  *ResponseExportService
	Forms     *forms.FormRepository
	Responses *responses.ResponseService
}

func NewGoogleSheetsHandler(formRepo *forms.FormRepository, responseService *responses.ResponseService) (*GoogleSheetsHandler, error) {
	ctx := context.Background()

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	} else {
		// Local credentials file, development only.
		credentialsFile := "configs/google-credentials.json"
		b, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("cannot read Google credentials file: %v", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	}

	if err != nil {
		return nil, fmt.Errorf("cannot load Google credentials: %v", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("cannot create Google Sheets client: %v", err)
	}

	return &GoogleSheetsHandler{
		exporter:  NewResponseExportService(sheetsService),
		Forms:     formRepo,
		Responses: responseService,
	}, nil
}

func (h *GoogleSheetsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/forms/:id/export/sheets", h.exportResponses)
}

type exportRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" binding:"required"`
	SheetRange    string `json:"sheet_range"`
}

func (h *GoogleSheetsHandler) exportResponses(c *gin.Context) {
	formID := c.Param("id")

	ownerID := c.GetInt("ownerID")
	owns, err := h.Forms.OwnsForm(formID, ownerID)
	if err != nil || !owns {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet_id is required"})
		return
	}
	if req.SheetRange == "" {
		req.SheetRange = "A1"
	}

	responseList, err := h.Responses.GetFormResponses(formID)
	if err != nil {
		log.Printf("Export failed loading responses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load responses"})
		return
	}

	rowsWritten, err := h.exporter.ExportResponses(req.SpreadsheetID, req.SheetRange, responseList)
	if err != nil {
		log.Printf("Export to spreadsheet %s failed: %v", req.SpreadsheetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spreadsheet_id": req.SpreadsheetID,
		"rows_written":   rowsWritten,
	})
}
