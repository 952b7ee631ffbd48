package items

type CreateItemRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	InitialStock   int     `json:"initial_stock" binding:"required,gte=0"`
	Price          float64 `json:"price" binding:"gte=0"`
	MaxPerResponse int     `json:"max_per_response" binding:"omitempty,gte=1"`
}

type UpdateItemRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	CurrentStock   *int     `json:"current_stock" binding:"omitempty,gte=0"`
	Price          *float64 `json:"price" binding:"omitempty,gte=0"`
	MaxPerResponse *int     `json:"max_per_response" binding:"omitempty,gte=1"`
	IsActive       *bool    `json:"is_active"`
}
