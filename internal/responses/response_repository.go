package responses

import (
	"encoding/json"
	"fmt"

	"giftforms/internal/repository"
	apperrors "giftforms/pkg/errors"
	"giftforms/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type ResponseRepository struct {
	repository *repository.Repository
}

func NewResponseRepository(r *repository.Repository) *ResponseRepository {
	return &ResponseRepository{repository: r}
}

func (r *ResponseRepository) InsertResponseRecord(tx *goqu.TxDatabase, formID string, req SubmitResponseRequest) (string, error) {
	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response answers: %w", err)
	}

	responseID := uuid.NewString()
	query := tx.Insert("form_responses").
		Rows(goqu.Record{
			"id":             responseID,
			"form_id":        formID,
			"customer_name":  req.CustomerName,
			"customer_email": req.CustomerEmail,
			"seller_name":    req.SellerName,
			"order_amount":   req.OrderAmount,
			"notes":          req.Notes,
			"answers":        answersJSON,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return "", apperrors.WrapDBError("failed to insert response record", err)
	}

	return responseID, nil
}

func (r *ResponseRepository) InsertClaimLines(tx *goqu.TxDatabase, responseID string, lines []models.ClaimLine) error {
	rows := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, goqu.Record{
			"id":           uuid.NewString(),
			"response_id":  responseID,
			"form_item_id": line.FormItemID,
			"quantity":     line.Quantity,
		})
	}

	query := tx.Insert("response_items").Rows(rows...)
	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to insert claim lines", err)
	}

	return nil
}

func (r *ResponseRepository) GetClaimLinesByResponseIDs(responseIDs []string) ([]models.ClaimLine, error) {
	var lines []models.ClaimLine
	query := r.repository.GoquDBWrapper.
		Select("id", "response_id", "form_item_id", "quantity").
		From("response_items").
		Where(goqu.Ex{"response_id": responseIDs})

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch claim lines", err)
	}

	return lines, nil
}

// DeleteClaimLines removes the claim lines for the given responses.
// Items listed in keepItemIDs are skipped so their lines survive for a
// retry after a failed stock restore.
func (r *ResponseRepository) DeleteClaimLines(responseIDs []string, keepItemIDs []string) error {
	query := r.repository.GoquDBWrapper.Delete("response_items").
		Where(goqu.Ex{"response_id": responseIDs})

	if len(keepItemIDs) > 0 {
		query = query.Where(goqu.C("form_item_id").NotIn(keepItemIDs))
	}

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to delete claim lines", err)
	}

	return nil
}

// DeleteResponsesWithoutLines removes response headers that no longer own
// any claim lines. Headers still holding lines (kept after a partial
// restore failure) stay behind for the retry.
func (r *ResponseRepository) DeleteResponsesWithoutLines(responseIDs []string) error {
	query := r.repository.GoquDBWrapper.Delete("form_responses").
		Where(goqu.Ex{"id": responseIDs}).
		Where(goqu.L("NOT EXISTS (SELECT 1 FROM response_items WHERE response_items.response_id = form_responses.id)"))

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to delete responses", err)
	}

	return nil
}

// GetFormResponses lists a form's responses newest first, with their claim
// lines and the claimed item's name and price.
func (r *ResponseRepository) GetFormResponses(formID string) ([]models.FormResponse, error) {
	var headers []models.FormResponse
	query := r.repository.GoquDBWrapper.
		Select("id", "form_id", "customer_name", "customer_email", "seller_name", "order_amount", "notes", "created_at").
		From("form_responses").
		Where(goqu.Ex{"form_id": formID}).
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&headers); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch form responses", err)
	}

	if len(headers) == 0 {
		return headers, nil
	}

	responseIDs := make([]string, 0, len(headers))
	for _, h := range headers {
		responseIDs = append(responseIDs, h.ID)
	}

	var lines []models.ClaimLine
	linesQuery := r.repository.GoquDBWrapper.
		Select(
			goqu.I("ri.id").As("id"),
			goqu.I("ri.response_id").As("response_id"),
			goqu.I("ri.form_item_id").As("form_item_id"),
			goqu.I("ri.quantity").As("quantity"),
			goqu.I("fi.name").As("item_name"),
			goqu.I("fi.price").As("item_price"),
		).
		From(goqu.T("response_items").As("ri")).
		LeftJoin(
			goqu.T("form_items").As("fi"),
			goqu.On(goqu.Ex{"fi.id": goqu.I("ri.form_item_id")}),
		).
		Where(goqu.Ex{"ri.response_id": responseIDs})

	if err := linesQuery.Executor().ScanStructs(&lines); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch response claim lines", err)
	}

	linesByResponse := make(map[string][]models.ClaimLine)
	for _, line := range lines {
		linesByResponse[line.ResponseID] = append(linesByResponse[line.ResponseID], line)
	}

	for i := range headers {
		headers[i].Items = linesByResponse[headers[i].ID]
	}

	return headers, nil
}
