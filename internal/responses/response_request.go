package responses

import (
	"giftforms/pkg/models"
)

type ClaimRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type SubmitResponseRequest struct {
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerEmail string          `json:"customer_email" binding:"required,email"`
	SellerName    string          `json:"seller_name"`
	OrderAmount   float64         `json:"order_amount" binding:"required"`
	Notes         string          `json:"notes"`
	Answers       []models.Answer `json:"answers"`
	Claims        []ClaimRequest  `json:"claims" binding:"required,min=1"`
}

type DeleteResponsesRequest struct {
	ResponseIDs []string `json:"response_ids"`
}
