package forms

import (
	"net/http"

	"giftforms/internal/items"
	"giftforms/pkg/auditlog"
	"giftforms/pkg/models"

	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	Repository *FormRepository
	Items      *items.ItemRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r *FormRepository, ir *items.ItemRepository, a *auditlog.Auditlog) *FormHandler {
	return &FormHandler{
		Repository: r,
		Items:      ir,
		AuditLog:   a,
	}
}

func (h *FormHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.GET("/public/forms/:token", h.GetPublicForm)
}

func (h *FormHandler) RegisterOwnerRoutes(router *gin.RouterGroup) {
	router.POST("/forms", h.CreateForm)
	router.GET("/forms", h.GetOwnerForms)
	router.GET("/forms/:id", h.GetForm)
	router.PATCH("/forms/:id", h.UpdateForm)
	router.DELETE("/forms/:id", h.DeleteForm)
	router.POST("/forms/:id/questions", h.CreateQuestion)
}

// GetPublicForm serves the respondent-facing view: only active items with
// stock left are offered. Price-gated filtering happens later, once the
// respondent declares an order amount and again server-side at submission.
func (h *FormHandler) GetPublicForm(c *gin.Context) {
	form, err := h.Repository.GetFormByShareToken(c.Param("token"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}
	if !form.IsActive || !form.IsPublic {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	allItems, err := h.Items.GetFormItems(form.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load form items"})
		return
	}

	available := make([]models.FormItem, 0, len(allItems))
	for _, item := range allItems {
		if item.IsActive && item.CurrentStock > 0 {
			available = append(available, item)
		}
	}

	questions, err := h.Repository.GetFormQuestions(form.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load form questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form":      form,
		"items":     available,
		"questions": questions,
	})
}

func (h *FormHandler) CreateForm(c *gin.Context) {
	var req CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	form, err := h.Repository.PersistForm(c.GetInt("ownerID"), req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create form", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("create", map[string]interface{}{"title": form.Title}, form)

	c.JSON(http.StatusCreated, form)
}

func (h *FormHandler) GetOwnerForms(c *gin.Context) {
	formList, err := h.Repository.GetOwnerForms(c.GetInt("ownerID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list forms", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, formList)
}

func (h *FormHandler) GetForm(c *gin.Context) {
	form := h.ownedForm(c)
	if form == nil {
		return
	}

	formItems, err := h.Items.GetFormItems(form.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load form items"})
		return
	}

	questions, err := h.Repository.GetFormQuestions(form.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load form questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form":      form,
		"items":     formItems,
		"questions": questions,
	})
}

func (h *FormHandler) UpdateForm(c *gin.Context) {
	form := h.ownedForm(c)
	if form == nil {
		return
	}

	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Repository.UpdateForm(form.ID, req); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update form", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form updated successfully"})
}

func (h *FormHandler) DeleteForm(c *gin.Context) {
	form := h.ownedForm(c)
	if form == nil {
		return
	}

	if err := h.Repository.DeleteForm(form.ID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete form", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("delete", map[string]interface{}{"title": form.Title}, form)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FormHandler) CreateQuestion(c *gin.Context) {
	form := h.ownedForm(c)
	if form == nil {
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	question, err := h.Repository.PersistQuestion(form.ID, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create question", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *FormHandler) ownedForm(c *gin.Context) *models.Form {
	form, err := h.Repository.GetForm(c.Param("id"))
	if err != nil || form.OwnerID != c.GetInt("ownerID") {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return nil
	}
	return form
}
