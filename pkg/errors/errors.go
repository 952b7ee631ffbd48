package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ValidationError covers caller-fixable input problems: bad payload shape,
// empty id sets, business-rule violations like exceeding the declared
// order amount.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// EligibilityError means a selected item no longer qualifies at submission
// time: inactive, out of stock, or priced above the declared order amount.
type EligibilityError struct {
	ItemID string
	Reason string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("item %s is not eligible: %s", e.ItemID, e.Reason)
}

func NewEligibilityError(itemID, reason string) *EligibilityError {
	return &EligibilityError{ItemID: itemID, Reason: reason}
}

// PersistenceError wraps a storage failure. Reads are safe to retry;
// multi-step writes are not without deduplication.
type PersistenceError struct {
	Msg string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err.Error())
	}
	return e.Msg
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(msg string, err error) *PersistenceError {
	return &PersistenceError{Msg: msg, Err: err}
}

// PartialFailure reports a bulk operation where some items succeeded and
// some did not. FailedItemIDs lets the caller retry only the failed units.
type PartialFailure struct {
	Msg           string
	FailedItemIDs []string
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s (failed items: %s)", e.Msg, strings.Join(e.FailedItemIDs, ", "))
}

func NewPartialFailure(msg string, failedItemIDs []string) *PartialFailure {
	return &PartialFailure{Msg: msg, FailedItemIDs: failedItemIDs}
}

// WrapDBError translates well-known postgres error codes into the taxonomy
// and wraps everything else as a PersistenceError.
func WrapDBError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return NewValidationError(message + ": value already exists")
		case "23503":
			return NewValidationError(message + ": value is referenced by other resources")
		}
	}

	return NewPersistenceError(message, err)
}
