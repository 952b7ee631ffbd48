package items

import (
	"net/http"

	"giftforms/pkg/auditlog"
	"giftforms/pkg/models"

	"github.com/gin-gonic/gin"
)

type FormOwnership interface {
	OwnsForm(formID string, ownerID int) (bool, error)
}

type LogReader interface {
	GetResourceLog(id string, resourceType string) ([]models.AuditLog, error)
}

type ItemHandler struct {
	Repository *ItemRepository
	Forms      FormOwnership
	AuditLog   *auditlog.Auditlog
	Logs       LogReader
}

func NewItemHandler(r *ItemRepository, forms FormOwnership, a *auditlog.Auditlog, logs LogReader) *ItemHandler {
	return &ItemHandler{
		Repository: r,
		Forms:      forms,
		AuditLog:   a,
		Logs:       logs,
	}
}

func (h *ItemHandler) RegisterOwnerRoutes(router *gin.RouterGroup) {
	router.GET("/forms/:id/items", h.GetFormItems)
	router.POST("/forms/:id/items", h.CreateItem)
	router.PATCH("/forms/:id/items/:item_id", h.UpdateItem)
	router.DELETE("/forms/:id/items/:item_id", h.DeleteItem)
	router.GET("/forms/:id/items/:item_id/history", h.GetItemHistory)
}

func (h *ItemHandler) GetFormItems(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}

	itemList, err := h.Repository.GetFormItems(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, itemList)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	item, err := h.Repository.PersistFormItem(c.Param("id"), req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create item", "details": err.Error()})
		return
	}

	go h.AuditLog.Log("create", map[string]interface{}{
		"name":          item.Name,
		"initial_stock": item.InitialStock,
	}, item)

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.Repository.UpdateFormItem(c.Param("item_id"), req); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update item", "details": err.Error()})
		return
	}

	item, err := h.Repository.GetFormItem(c.Param("item_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load updated item"})
		return
	}

	if req.CurrentStock != nil {
		go h.AuditLog.Log("stock_adjusted", map[string]interface{}{
			"current_stock": item.CurrentStock,
			"initial_stock": item.InitialStock,
			"msg":           "Manual stock edit by owner",
		}, item)
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}

	if err := h.Repository.DeleteFormItem(c.Param("item_id")); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetItemHistory returns the item's audit trail: creation, manual stock
// edits, claims and restores, newest first.
func (h *ItemHandler) GetItemHistory(c *gin.Context) {
	if !h.checkOwnership(c) {
		return
	}

	entries, err := h.Logs.GetResourceLog(c.Param("item_id"), "form_item")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load item history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *ItemHandler) checkOwnership(c *gin.Context) bool {
	owns, err := h.Forms.OwnsForm(c.Param("id"), c.GetInt("ownerID"))
	if err != nil || !owns {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return false
	}
	return true
}
