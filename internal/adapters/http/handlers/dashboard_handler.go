package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard and report endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	reportService    *services.ReportService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, reportService *services.ReportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reportService:    reportService,
	}
}

// Stats handles dashboard counters
// @Summary Dashboard stats
// @Description Key counts after refreshing overdue statuses
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response{data=domain.DashboardStats}
// @Router /stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.Context())
	if err != nil {
		return fail(c, err, "Failed to load stats")
	}

	return response.OK(c, stats)
}

// ReportSummary handles the report page data
// @Summary Report summary
// @Description Status distribution, department activity and overdue keys
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response{data=domain.ReportSummary}
// @Router /reports/summary [get]
func (h *DashboardHandler) ReportSummary(c *fiber.Ctx) error {
	summary, err := h.reportService.Summary(c.Context())
	if err != nil {
		return fail(c, err, "Failed to build report")
	}

	return response.OK(c, summary)
}
