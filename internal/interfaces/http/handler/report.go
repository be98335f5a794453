package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/invtrack/backend/internal/application/report"
)

// ReportHandler handles dashboard reporting endpoints
type ReportHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboardService *reportapp.DashboardService) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.Dashboard)
	}
}

// Dashboard returns headline statistics across the store
func (h *ReportHandler) Dashboard(c *gin.Context) {
	resp, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
