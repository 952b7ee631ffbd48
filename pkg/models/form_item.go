package models

import (
	"time"
)

// FormItem is a claimable unit with finite stock. Price is the minimum
// order value required to unlock the item, not a unit price charged.
type FormItem struct {
	ID             string    `json:"id" db:"id"`
	FormID         string    `json:"form_id" db:"form_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	InitialStock   int       `json:"initial_stock" db:"initial_stock"`
	CurrentStock   int       `json:"current_stock" db:"current_stock"`
	Price          float64   `json:"price" db:"price"`
	MaxPerResponse int       `json:"max_per_response" db:"max_per_response"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (i *FormItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "form_item",
	}
}
