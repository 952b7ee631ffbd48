package items

import (
	"fmt"

	"giftforms/internal/repository"
	apperrors "giftforms/pkg/errors"
	"giftforms/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type ItemRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

func (r *ItemRepository) GetFormItems(formID string) ([]models.FormItem, error) {
	var items []models.FormItem
	query := r.repository.GoquDBWrapper.
		Select("id", "form_id", "name", "description", "initial_stock", "current_stock", "price", "max_per_response", "is_active", "created_at").
		From("form_items").
		Where(goqu.Ex{"form_id": formID}).
		Order(goqu.I("created_at").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch form items", err)
	}

	return items, nil
}

func (r *ItemRepository) GetFormItem(id string) (*models.FormItem, error) {
	var item models.FormItem
	query := r.repository.GoquDBWrapper.
		Select("id", "form_id", "name", "description", "initial_stock", "current_stock", "price", "max_per_response", "is_active", "created_at").
		From("form_items").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, apperrors.WrapDBError("failed to fetch form item", err)
	}
	if !found {
		return nil, apperrors.NewValidationError(fmt.Sprintf("item %s does not exist", id))
	}

	return &item, nil
}

// GetItemsByIDs reads items inside the submission transaction so
// eligibility is checked against current stock, not the page-load snapshot.
func (r *ItemRepository) GetItemsByIDs(tx *goqu.TxDatabase, formID string, ids []string) ([]models.FormItem, error) {
	var items []models.FormItem
	query := tx.
		Select("id", "form_id", "name", "description", "initial_stock", "current_stock", "price", "max_per_response", "is_active", "created_at").
		From("form_items").
		Where(goqu.Ex{"form_id": formID, "id": ids})

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch claimed items", err)
	}

	return items, nil
}

func (r *ItemRepository) PersistFormItem(formID string, req CreateItemRequest) (*models.FormItem, error) {
	maxPerResponse := req.MaxPerResponse
	if maxPerResponse < 1 {
		maxPerResponse = 1
	}

	item := models.FormItem{
		ID:             uuid.NewString(),
		FormID:         formID,
		Name:           req.Name,
		Description:    req.Description,
		InitialStock:   req.InitialStock,
		CurrentStock:   req.InitialStock,
		Price:          req.Price,
		MaxPerResponse: maxPerResponse,
		IsActive:       true,
	}

	query := r.repository.GoquDBWrapper.Insert("form_items").
		Rows(goqu.Record{
			"id":               item.ID,
			"form_id":          item.FormID,
			"name":             item.Name,
			"description":      item.Description,
			"initial_stock":    item.InitialStock,
			"current_stock":    item.CurrentStock,
			"price":            item.Price,
			"max_per_response": item.MaxPerResponse,
			"is_active":        item.IsActive,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return nil, apperrors.WrapDBError("failed to insert form item", err)
	}

	return &item, nil
}

// UpdateFormItem applies an owner edit. A manual stock change also raises
// initial_stock to the new value when needed, keeping
// current_stock <= initial_stock true for later submissions.
func (r *ItemRepository) UpdateFormItem(id string, req UpdateItemRequest) error {
	record := goqu.Record{}
	if req.Name != nil {
		record["name"] = *req.Name
	}
	if req.Description != nil {
		record["description"] = *req.Description
	}
	if req.Price != nil {
		record["price"] = *req.Price
	}
	if req.MaxPerResponse != nil {
		record["max_per_response"] = *req.MaxPerResponse
	}
	if req.IsActive != nil {
		record["is_active"] = *req.IsActive
	}
	if req.CurrentStock != nil {
		record["current_stock"] = *req.CurrentStock
		record["initial_stock"] = goqu.L("GREATEST(initial_stock, ?)", *req.CurrentStock)
	}

	if len(record) == 0 {
		return apperrors.NewValidationError("no item fields to update")
	}

	result, err := r.repository.GoquDBWrapper.Update("form_items").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return apperrors.WrapDBError("failed to update form item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("item %s does not exist", id))
	}

	return nil
}

// DeleteFormItem removes an item; its claim lines go with it via the
// ON DELETE CASCADE on response_items.
func (r *ItemRepository) DeleteFormItem(id string) error {
	query := r.repository.GoquDBWrapper.Delete("form_items").
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to delete form item", err)
	}

	return nil
}
