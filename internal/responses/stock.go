package responses

import (
	"fmt"

	"giftforms/internal/repository"
	apperrors "giftforms/pkg/errors"

	"github.com/doug-martin/goqu/v9"
)

// goquDB is the query-building surface shared by goqu.Database and
// goqu.TxDatabase, so the mutator works inside and outside transactions.
type goquDB interface {
	Select(cols ...interface{}) *goqu.SelectDataset
	Update(table interface{}) *goqu.UpdateDataset
}

const casMaxAttempts = 5

// StockMutator applies signed deltas to form_items.current_stock:
// negative on submission, positive on response deletion. current_stock
// never goes below zero; restores are not capped at initial_stock (owner
// edits are the only place that counter is reconciled).
type StockMutator struct {
	repository *repository.Repository
}

func NewStockMutator(r *repository.Repository) *StockMutator {
	return &StockMutator{repository: r}
}

func (m *StockMutator) ApplyDelta(itemID string, delta int) (int, error) {
	return m.applyDelta(m.repository.GoquDBWrapper, itemID, delta)
}

func (m *StockMutator) ApplyDeltaTx(tx *goqu.TxDatabase, itemID string, delta int) (int, error) {
	return m.applyDelta(tx, itemID, delta)
}

// applyDelta prefers a single-statement update: the floor is applied in
// the same statement as the increment, so concurrent mutators of the same
// item serialize on the row and no read-modify-write window exists.
func (m *StockMutator) applyDelta(db goquDB, itemID string, delta int) (int, error) {
	var newStock int
	query := db.Update("form_items").
		Set(goqu.Record{
			"current_stock": goqu.L("GREATEST(current_stock + ?, 0)", delta),
		}).
		Where(goqu.Ex{"id": itemID}).
		Returning("current_stock")

	found, err := query.Executor().ScanVal(&newStock)
	if err != nil {
		return m.applyDeltaCAS(db, itemID, delta)
	}
	if !found {
		return 0, apperrors.NewValidationError(fmt.Sprintf("item %s does not exist", itemID))
	}

	return newStock, nil
}

// applyDeltaCAS is the degraded path when the atomic statement fails:
// read the value, write the clamped result conditioned on the value being
// unchanged, retry on conflict. Never a blind overwrite.
func (m *StockMutator) applyDeltaCAS(db goquDB, itemID string, delta int) (int, error) {
	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		var current int
		found, err := db.Select("current_stock").
			From("form_items").
			Where(goqu.Ex{"id": itemID}).
			Executor().ScanVal(&current)
		if err != nil {
			return 0, apperrors.WrapDBError("failed to read current stock", err)
		}
		if !found {
			return 0, apperrors.NewValidationError(fmt.Sprintf("item %s does not exist", itemID))
		}

		newStock := clampStock(current, delta)

		result, err := db.Update("form_items").
			Set(goqu.Record{"current_stock": newStock}).
			Where(goqu.Ex{"id": itemID, "current_stock": current}).
			Executor().Exec()
		if err != nil {
			return 0, apperrors.WrapDBError("failed to write new stock value", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check rows affected for item %s: %w", itemID, err)
		}
		if rowsAffected == 1 {
			return newStock, nil
		}
		// another writer changed the row in between, re-read and retry
	}

	return 0, apperrors.NewPersistenceError(fmt.Sprintf("stock update contention on item %s", itemID), nil)
}

// clampStock floors the counter at zero.
func clampStock(current, delta int) int {
	newStock := current + delta
	if newStock < 0 {
		return 0
	}
	return newStock
}
