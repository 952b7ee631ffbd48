package analytics

import (
	"fmt"

	"giftforms/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

// FormSummary aggregates a form's response and stock activity.
type FormSummary struct {
	TotalResponses int     `json:"total_responses" db:"total_responses"`
	StockConsumed  int     `json:"stock_consumed" db:"stock_consumed"`
	TotalValue     float64 `json:"total_value" db:"total_value"`
}

type TopItem struct {
	FormItemID    string `json:"form_item_id" db:"form_item_id"`
	ItemName      string `json:"item_name" db:"item_name"`
	TotalQuantity int    `json:"total_quantity" db:"total_quantity"`
}

type AnalyticsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AnalyticsRepository {
	return &AnalyticsRepository{repository: r}
}

func (r *AnalyticsRepository) GetFormSummary(formID string) (*FormSummary, error) {
	var summary FormSummary

	countQuery := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("id").As("total_responses")).
		From("form_responses").
		Where(goqu.Ex{"form_id": formID})

	if _, err := countQuery.Executor().ScanStruct(&summary); err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	var stock struct {
		StockConsumed int `db:"stock_consumed"`
	}
	stockQuery := r.repository.GoquDBWrapper.
		Select(goqu.L("COALESCE(SUM(initial_stock - current_stock), 0)").As("stock_consumed")).
		From("form_items").
		Where(goqu.Ex{"form_id": formID})

	if _, err := stockQuery.Executor().ScanStruct(&stock); err != nil {
		return nil, fmt.Errorf("failed to sum consumed stock: %w", err)
	}
	summary.StockConsumed = stock.StockConsumed

	var value struct {
		TotalValue float64 `db:"total_value"`
	}
	valueQuery := r.repository.GoquDBWrapper.
		Select(goqu.L("COALESCE(SUM(ri.quantity * fi.price), 0)").As("total_value")).
		From(goqu.T("response_items").As("ri")).
		Join(
			goqu.T("form_items").As("fi"),
			goqu.On(goqu.Ex{"ri.form_item_id": goqu.I("fi.id")}),
		).
		Where(goqu.Ex{"fi.form_id": formID})

	if _, err := valueQuery.Executor().ScanStruct(&value); err != nil {
		return nil, fmt.Errorf("failed to sum claimed value: %w", err)
	}
	summary.TotalValue = value.TotalValue

	return &summary, nil
}

func (r *AnalyticsRepository) GetTopItems(formID string, limit uint) ([]TopItem, error) {
	var items []TopItem

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("ri.form_item_id"),
			goqu.I("fi.name").As("item_name"),
			goqu.L("SUM(ri.quantity)").As("total_quantity"),
		).
		From(goqu.T("response_items").As("ri")).
		Join(
			goqu.T("form_items").As("fi"),
			goqu.On(goqu.Ex{"ri.form_item_id": goqu.I("fi.id")}),
		).
		Where(goqu.Ex{"fi.form_id": formID}).
		GroupBy(goqu.I("ri.form_item_id"), goqu.I("fi.name")).
		Order(goqu.L("SUM(ri.quantity)").Desc()).
		Limit(limit)

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("failed to load top items: %w", err)
	}

	return items, nil
}
