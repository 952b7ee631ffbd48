package analytics

import (
	"net/http"
	"strconv"

	"giftforms/internal/forms"

	"github.com/gin-gonic/gin"
)

const defaultTopItemsLimit = 5

type AnalyticsHandler struct {
	Repository *AnalyticsRepository
	Forms      *forms.FormRepository
}

func NewHandler(r *AnalyticsRepository, formRepo *forms.FormRepository) *AnalyticsHandler {
	return &AnalyticsHandler{
		Repository: r,
		Forms:      formRepo,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/forms/:id/analytics", h.GetFormAnalytics)
}

func (h *AnalyticsHandler) GetFormAnalytics(c *gin.Context) {
	formID := c.Param("id")

	ownerID := c.GetInt("ownerID")
	owns, err := h.Forms.OwnsForm(formID, ownerID)
	if err != nil || !owns {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	summary, err := h.Repository.GetFormSummary(formID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load form summary", "details": err.Error()})
		return
	}

	limit := defaultTopItemsLimit
	if raw := c.Query("top"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	topItems, err := h.Repository.GetTopItems(formID, uint(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load top items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":   summary,
		"top_items": topItems,
	})
}
