package models

import (
	"time"
)

type Form struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     int       `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ShareToken  string    `json:"share_token" db:"share_token"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (f *Form) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   f.ID,
		ResourceType: "form",
	}
}

// Question is an owner-defined custom question attached to a form.
// Answers submitted against it are validated by kind (see Answer).
type Question struct {
	ID       string         `json:"id" db:"id"`
	FormID   string         `json:"form_id" db:"form_id"`
	Label    string         `json:"label" db:"label"`
	Kind     AnswerKind     `json:"kind" db:"kind"`
	Required bool           `json:"required" db:"required"`
	Options  QuestionOption `json:"options" db:"options"`
	Position int            `json:"position" db:"position"`
}
