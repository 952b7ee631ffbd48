package responses

import (
	"errors"
	"net/http"

	"giftforms/internal/forms"
	"giftforms/pkg/auditlog"
	apperrors "giftforms/pkg/errors"
	"giftforms/pkg/models"

	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	Service  *ResponseService
	Forms    *forms.FormRepository
	AuditLog *auditlog.Auditlog
}

func NewHandler(service *ResponseService, formRepo *forms.FormRepository, a *auditlog.Auditlog) *ResponseHandler {
	return &ResponseHandler{
		Service:  service,
		Forms:    formRepo,
		AuditLog: a,
	}
}

func (h *ResponseHandler) RegisterPublicRoutes(router *gin.Engine, submitGuard gin.HandlerFunc) {
	router.POST("/public/forms/:token/responses", submitGuard, h.SubmitResponse)
}

func (h *ResponseHandler) RegisterOwnerRoutes(router *gin.RouterGroup) {
	router.GET("/forms/:id/responses", h.GetFormResponses)
	router.POST("/forms/:id/responses/delete", h.DeleteResponses)
}

// SubmitResponse is the public submission endpoint, addressed by the
// form's share token rather than its id.
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	form, err := h.Forms.GetFormByShareToken(c.Param("token"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}
	if !form.IsActive || !form.IsPublic {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form is not accepting responses"})
		return
	}

	var req SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	response, err := h.Service.SubmitResponse(form.ID, req)
	if err != nil {
		status, body := errorResponse(err)
		c.AbortWithStatusJSON(status, body)
		return
	}

	go h.createClaimAuditLogEntries("stock_claimed", response)

	c.JSON(http.StatusCreated, gin.H{"id": response.ID})
}

func (h *ResponseHandler) GetFormResponses(c *gin.Context) {
	formID := c.Param("id")
	if !h.ownsForm(c, formID) {
		return
	}

	responseList, err := h.Service.GetFormResponses(formID)
	if err != nil {
		status, body := errorResponse(err)
		c.AbortWithStatusJSON(status, body)
		return
	}

	c.JSON(http.StatusOK, responseList)
}

func (h *ResponseHandler) DeleteResponses(c *gin.Context) {
	formID := c.Param("id")
	if !h.ownsForm(c, formID) {
		return
	}

	var req DeleteResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Service.DeleteResponses(req.ResponseIDs); err != nil {
		status, body := errorResponse(err)
		c.AbortWithStatusJSON(status, body)
		return
	}

	go h.createRestoreAuditLogEntries("stock_restored", formID, req.ResponseIDs)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ResponseHandler) ownsForm(c *gin.Context, formID string) bool {
	ownerID := c.GetInt("ownerID")
	form, err := h.Forms.GetForm(formID)
	if err != nil || form.OwnerID != ownerID {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return false
	}
	return true
}

func (h *ResponseHandler) createClaimAuditLogEntries(action string, response *models.FormResponse) {
	for _, line := range response.Items {
		item := models.FormItem{ID: line.FormItemID}
		h.AuditLog.Log(
			action,
			map[string]interface{}{
				"response_id": response.ID,
				"form_id":     response.FormID,
				"quantity":    line.Quantity,
				"msg":         "Stock claimed by response",
			},
			&item,
		)
	}
}

func (h *ResponseHandler) createRestoreAuditLogEntries(action string, formID string, responseIDs []string) {
	for _, responseID := range responseIDs {
		response := models.FormResponse{ID: responseID}
		h.AuditLog.Log(
			action,
			map[string]interface{}{
				"form_id": formID,
				"msg":     "Stock restored after response deletion",
			},
			&response,
		)
	}
}

// errorResponse maps the error taxonomy onto HTTP statuses: caller-fixable
// problems are 4xx, storage failures 5xx, partial restores 500 with the
// failed item ids so the caller can retry just those.
func errorResponse(err error) (int, gin.H) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, gin.H{"error": validationErr.Msg}
	}

	var eligibilityErr *apperrors.EligibilityError
	if errors.As(err, &eligibilityErr) {
		return http.StatusConflict, gin.H{"error": eligibilityErr.Error(), "item_id": eligibilityErr.ItemID}
	}

	var partial *apperrors.PartialFailure
	if errors.As(err, &partial) {
		return http.StatusInternalServerError, gin.H{
			"error":        "Some responses could not be deleted: stock not fully restored",
			"failed_items": partial.FailedItemIDs,
		}
	}

	return http.StatusInternalServerError, gin.H{"error": "Unexpected storage failure", "details": err.Error()}
}
