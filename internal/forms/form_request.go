package forms

import (
	"giftforms/pkg/models"
)

type CreateFormRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateFormRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	IsActive    *bool   `json:"is_active"`
}

type CreateQuestionRequest struct {
	Label    string                `json:"label" binding:"required"`
	Kind     models.AnswerKind     `json:"kind" binding:"required,oneof=text number choice bool"`
	Required bool                  `json:"required"`
	Options  models.QuestionOption `json:"options"`
	Position int                   `json:"position"`
}
