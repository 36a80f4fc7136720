package controllers

import (
	"net/http"

	"linkpulse-be/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	analytics service.AnalyticsService
}

func NewAnalyticsController(analytics service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// GetAnalytics handles GET /api/v1/analytics/:shortCode - returns the
// aggregated click analytics for a short code
func (ac *AnalyticsController) GetAnalytics(c *gin.Context) {
	shortCode := c.Param("shortCode")

	response, err := ac.analytics.GetAnalytics(shortCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load analytics",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
