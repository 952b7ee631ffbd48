package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type AnswerKind string

const (
	AnswerKindText   AnswerKind = "text"
	AnswerKindNumber AnswerKind = "number"
	AnswerKindChoice AnswerKind = "choice"
	AnswerKindBool   AnswerKind = "bool"
)

// Answer is one respondent answer to a custom question. It is a tagged
// union: Kind decides which value field is meaningful.
type Answer struct {
	QuestionID string     `json:"question_id"`
	Kind       AnswerKind `json:"kind"`
	Text       string     `json:"text,omitempty"`
	Number     float64    `json:"number,omitempty"`
	Choice     string     `json:"choice,omitempty"`
	Bool       bool       `json:"bool,omitempty"`
}

// Validate checks the answer against its question's schema.
func (a Answer) Validate(q Question) error {
	if a.Kind != q.Kind {
		return fmt.Errorf("answer kind %q does not match question kind %q", a.Kind, q.Kind)
	}

	switch a.Kind {
	case AnswerKindText:
		if q.Required && a.Text == "" {
			return fmt.Errorf("question %q requires a text answer", q.Label)
		}
	case AnswerKindNumber:
		// nothing beyond the kind match, zero is a valid number
	case AnswerKindChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q has no configured options", q.Label)
		}
		for _, opt := range q.Options {
			if opt == a.Choice {
				return nil
			}
		}
		return fmt.Errorf("answer %q is not one of the options for question %q", a.Choice, q.Label)
	case AnswerKindBool:
		// always valid
	default:
		return fmt.Errorf("unsupported answer kind %q", a.Kind)
	}

	return nil
}

// QuestionOption is the allowed choice list for choice questions, stored
// as a jsonb column.
type QuestionOption []string

func (o QuestionOption) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	return json.Marshal(o)
}

func (o *QuestionOption) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into QuestionOption", src)
	}
}
