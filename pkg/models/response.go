package models

import (
	"time"
)

// FormResponse is one respondent submission against a form. OrderAmount is
// the declared sale value that drives item eligibility at submission time.
type FormResponse struct {
	ID            string      `json:"id" db:"id"`
	FormID        string      `json:"form_id" db:"form_id"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	SellerName    string      `json:"seller_name" db:"seller_name"`
	OrderAmount   float64     `json:"order_amount" db:"order_amount"`
	Notes         string      `json:"notes" db:"notes"`
	Answers       []Answer    `json:"answers" db:"-"`
	Items         []ClaimLine `json:"response_items" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

func (r *FormResponse) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "form_response",
	}
}

// ClaimLine associates one response with one item and the quantity claimed.
// ItemName and ItemPrice are filled on reads joining form_items.
type ClaimLine struct {
	ID         string  `json:"id" db:"id"`
	ResponseID string  `json:"response_id" db:"response_id"`
	FormItemID string  `json:"form_item_id" db:"form_item_id"`
	Quantity   int     `json:"quantity" db:"quantity"`
	ItemName   string  `json:"item_name,omitempty" db:"item_name"`
	ItemPrice  float64 `json:"item_price,omitempty" db:"item_price"`
}
