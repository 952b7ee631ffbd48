package responses

import (
	"fmt"
	"sort"

	"giftforms/internal/items"
	"giftforms/internal/repository"
	apperrors "giftforms/pkg/errors"
	"giftforms/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type TxRunner interface {
	RunTx(fn func(tx *goqu.TxDatabase) error) error
}

type ItemReader interface {
	GetItemsByIDs(tx *goqu.TxDatabase, formID string, ids []string) ([]models.FormItem, error)
}

type QuestionReader interface {
	GetFormQuestions(formID string) ([]models.Question, error)
}

type ResponseStore interface {
	InsertResponseRecord(tx *goqu.TxDatabase, formID string, req SubmitResponseRequest) (string, error)
	InsertClaimLines(tx *goqu.TxDatabase, responseID string, lines []models.ClaimLine) error
	GetClaimLinesByResponseIDs(responseIDs []string) ([]models.ClaimLine, error)
	DeleteClaimLines(responseIDs []string, keepItemIDs []string) error
	DeleteResponsesWithoutLines(responseIDs []string) error
	GetFormResponses(formID string) ([]models.FormResponse, error)
}

type StockWriter interface {
	ApplyDelta(itemID string, delta int) (int, error)
	ApplyDeltaTx(tx *goqu.TxDatabase, itemID string, delta int) (int, error)
}

// ResponseService orchestrates the response lifecycle: eligibility checks,
// persistence of the response and its claim lines, and the stock
// mutations those claims imply.
type ResponseService struct {
	tx        TxRunner
	responses ResponseStore
	items     ItemReader
	questions QuestionReader
	stock     StockWriter
}

func NewResponseService(r *repository.Repository, rr ResponseStore, ir ItemReader, qr QuestionReader, sw StockWriter) *ResponseService {
	return &ResponseService{
		tx:        &dbTxRunner{r: r},
		responses: rr,
		items:     ir,
		questions: qr,
		stock:     sw,
	}
}

type dbTxRunner struct {
	r *repository.Repository
}

func (d *dbTxRunner) RunTx(fn func(tx *goqu.TxDatabase) error) error {
	return repository.WithTransaction(d.r.GoquDBWrapper, fn)
}

// SubmitResponse validates a candidate claim set against current ledger
// state and persists the response, its claim lines and the stock
// decrements inside one transaction. Any failure rolls the whole
// submission back: no orphan headers, no partial decrements.
func (s *ResponseService) SubmitResponse(formID string, req SubmitResponseRequest) (*models.FormResponse, error) {
	if req.OrderAmount <= 0 {
		return nil, apperrors.NewValidationError("order amount must be greater than zero")
	}
	if len(req.Claims) == 0 {
		return nil, apperrors.NewValidationError("at least one item must be claimed")
	}

	// collapse duplicate claims per item, clamping each requested
	// quantity to at least one
	itemIDs := make([]string, 0, len(req.Claims))
	requested := make(map[string]int)
	for _, claim := range req.Claims {
		if claim.ItemID == "" {
			return nil, apperrors.NewValidationError("claim without an item id")
		}
		if _, seen := requested[claim.ItemID]; !seen {
			itemIDs = append(itemIDs, claim.ItemID)
		}
		quantity := claim.Quantity
		if quantity < 1 {
			quantity = 1
		}
		requested[claim.ItemID] += quantity
	}

	questions, err := s.questions.GetFormQuestions(formID)
	if err != nil {
		return nil, err
	}
	if err := validateAnswers(questions, req.Answers); err != nil {
		return nil, err
	}

	response := &models.FormResponse{FormID: formID}

	err = s.tx.RunTx(func(tx *goqu.TxDatabase) error {
		ledger, err := s.items.GetItemsByIDs(tx, formID, itemIDs)
		if err != nil {
			return err
		}

		itemsByID := make(map[string]models.FormItem, len(ledger))
		for _, item := range ledger {
			itemsByID[item.ID] = item
		}

		var totalValue float64
		lines := make([]models.ClaimLine, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			item, ok := itemsByID[itemID]
			if !ok {
				return apperrors.NewEligibilityError(itemID, "item is not part of this form")
			}
			if !items.IsEligible(item, req.OrderAmount) {
				return apperrors.NewEligibilityError(itemID, eligibilityReason(item))
			}

			quantity := items.ClampQuantity(item, requested[itemID])
			totalValue += item.Price * float64(quantity)
			lines = append(lines, models.ClaimLine{FormItemID: itemID, Quantity: quantity})
		}

		if totalValue > req.OrderAmount {
			return apperrors.NewValidationError(fmt.Sprintf(
				"selected items total %.2f exceeds the declared order amount %.2f", totalValue, req.OrderAmount))
		}

		responseID, err := s.responses.InsertResponseRecord(tx, formID, req)
		if err != nil {
			return err
		}

		if err := s.responses.InsertClaimLines(tx, responseID, lines); err != nil {
			return err
		}

		for _, line := range lines {
			if _, err := s.stock.ApplyDeltaTx(tx, line.FormItemID, -line.Quantity); err != nil {
				return err
			}
		}

		response.ID = responseID
		response.Items = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// DeleteResponses restores the stock the given responses consumed and
// removes their claim lines and headers. Items are restored independently:
// one failed restore does not block the others, but its claim lines (and
// the headers still owning lines) are kept so the caller can retry, and
// the failed item ids are reported back.
func (s *ResponseService) DeleteResponses(responseIDs []string) error {
	if len(responseIDs) == 0 {
		return apperrors.NewValidationError("no responses selected")
	}

	lines, err := s.responses.GetClaimLinesByResponseIDs(responseIDs)
	if err != nil {
		return err
	}

	totals := AggregateClaims(lines)

	var failedItemIDs []string
	for itemID, quantity := range totals {
		if _, err := s.stock.ApplyDelta(itemID, quantity); err != nil {
			failedItemIDs = append(failedItemIDs, itemID)
		}
	}
	sort.Strings(failedItemIDs)

	if err := s.responses.DeleteClaimLines(responseIDs, failedItemIDs); err != nil {
		return err
	}

	if err := s.responses.DeleteResponsesWithoutLines(responseIDs); err != nil {
		return err
	}

	if len(failedItemIDs) > 0 {
		return apperrors.NewPartialFailure("stock was not fully restored", failedItemIDs)
	}

	return nil
}

func (s *ResponseService) GetFormResponses(formID string) ([]models.FormResponse, error) {
	return s.responses.GetFormResponses(formID)
}

func eligibilityReason(item models.FormItem) string {
	switch {
	case !item.IsActive:
		return "item is no longer active"
	case item.CurrentStock <= 0:
		return "item is out of stock"
	default:
		return fmt.Sprintf("item requires a minimum order value of %.2f", item.Price)
	}
}

func validateAnswers(questions []models.Question, answers []models.Answer) error {
	questionsByID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		questionsByID[q.ID] = q
	}

	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		q, ok := questionsByID[a.QuestionID]
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("answer references unknown question %s", a.QuestionID))
		}
		if err := a.Validate(q); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		answered[q.ID] = true
	}

	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			return apperrors.NewValidationError(fmt.Sprintf("question %q requires an answer", q.Label))
		}
	}

	return nil
}
