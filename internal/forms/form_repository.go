package forms

import (
	"fmt"

	"giftforms/internal/repository"
	apperrors "giftforms/pkg/errors"
	"giftforms/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type FormRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *FormRepository {
	return &FormRepository{repository: r}
}

func (r *FormRepository) PersistForm(ownerID int, req CreateFormRequest) (*models.Form, error) {
	form := models.Form{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		ShareToken:  uuid.NewString(),
		IsPublic:    req.IsPublic,
		IsActive:    true,
	}

	query := r.repository.GoquDBWrapper.Insert("forms").
		Rows(goqu.Record{
			"id":          form.ID,
			"owner_id":    form.OwnerID,
			"title":       form.Title,
			"description": form.Description,
			"share_token": form.ShareToken,
			"is_public":   form.IsPublic,
			"is_active":   form.IsActive,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return nil, apperrors.WrapDBError("failed to insert form", err)
	}

	return &form, nil
}

func (r *FormRepository) GetForm(id string) (*models.Form, error) {
	var form models.Form
	query := r.repository.GoquDBWrapper.
		Select("id", "owner_id", "title", "description", "share_token", "is_public", "is_active", "created_at").
		From("forms").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&form)
	if err != nil {
		return nil, apperrors.WrapDBError("failed to fetch form", err)
	}
	if !found {
		return nil, apperrors.NewValidationError(fmt.Sprintf("form %s does not exist", id))
	}

	return &form, nil
}

func (r *FormRepository) GetFormByShareToken(token string) (*models.Form, error) {
	var form models.Form
	query := r.repository.GoquDBWrapper.
		Select("id", "owner_id", "title", "description", "share_token", "is_public", "is_active", "created_at").
		From("forms").
		Where(goqu.Ex{"share_token": token})

	found, err := query.Executor().ScanStruct(&form)
	if err != nil {
		return nil, apperrors.WrapDBError("failed to fetch form by share token", err)
	}
	if !found {
		return nil, apperrors.NewValidationError("form does not exist")
	}

	return &form, nil
}

func (r *FormRepository) GetOwnerForms(ownerID int) ([]models.Form, error) {
	var formList []models.Form
	query := r.repository.GoquDBWrapper.
		Select("id", "owner_id", "title", "description", "share_token", "is_public", "is_active", "created_at").
		From("forms").
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&formList); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch owner forms", err)
	}

	return formList, nil
}

func (r *FormRepository) UpdateForm(id string, req UpdateFormRequest) error {
	record := goqu.Record{}
	if req.Title != nil {
		record["title"] = *req.Title
	}
	if req.Description != nil {
		record["description"] = *req.Description
	}
	if req.IsPublic != nil {
		record["is_public"] = *req.IsPublic
	}
	if req.IsActive != nil {
		record["is_active"] = *req.IsActive
	}

	if len(record) == 0 {
		return apperrors.NewValidationError("no form fields to update")
	}

	query := r.repository.GoquDBWrapper.Update("forms").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to update form", err)
	}

	return nil
}

func (r *FormRepository) DeleteForm(id string) error {
	query := r.repository.GoquDBWrapper.Delete("forms").
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return apperrors.WrapDBError("failed to delete form", err)
	}

	return nil
}

// OwnsForm reports whether the form exists and belongs to the owner.
func (r *FormRepository) OwnsForm(formID string, ownerID int) (bool, error) {
	count, err := r.repository.GoquDBWrapper.
		From("forms").
		Where(goqu.Ex{"id": formID, "owner_id": ownerID}).
		Count()
	if err != nil {
		return false, apperrors.WrapDBError("failed to check form ownership", err)
	}

	return count > 0, nil
}

func (r *FormRepository) GetFormQuestions(formID string) ([]models.Question, error) {
	var questions []models.Question
	query := r.repository.GoquDBWrapper.
		Select("id", "form_id", "label", "kind", "required", "options", "position").
		From("form_questions").
		Where(goqu.Ex{"form_id": formID}).
		Order(goqu.I("position").Asc())

	if err := query.Executor().ScanStructs(&questions); err != nil {
		return nil, apperrors.WrapDBError("failed to fetch form questions", err)
	}

	return questions, nil
}

func (r *FormRepository) PersistQuestion(formID string, req CreateQuestionRequest) (*models.Question, error) {
	question := models.Question{
		ID:       uuid.NewString(),
		FormID:   formID,
		Label:    req.Label,
		Kind:     req.Kind,
		Required: req.Required,
		Options:  req.Options,
		Position: req.Position,
	}

	query := r.repository.GoquDBWrapper.Insert("form_questions").
		Rows(goqu.Record{
			"id":       question.ID,
			"form_id":  question.FormID,
			"label":    question.Label,
			"kind":     question.Kind,
			"required": question.Required,
			"options":  question.Options,
			"position": question.Position,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return nil, apperrors.WrapDBError("failed to insert form question", err)
	}

	return &question, nil
}
