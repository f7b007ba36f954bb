package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/project-portal-api/internal/dto"
	"github.com/noah-isme/project-portal-api/internal/service"
	"github.com/noah-isme/project-portal-api/pkg/response"
)

type analyticsService interface {
	Report(ctx context.Context) (*dto.AnalyticsReport, bool, error)
	DomainDetail(ctx context.Context, domain string) (*dto.DomainAnalytics, error)
}

type exportService interface {
	Export(ctx context.Context, format dto.ExportFormat) (*dto.ExportFile, error)
}

// AnalyticsHandler exposes the faculty reporting endpoints.
type AnalyticsHandler struct {
	analytics analyticsService
	exports   exportService
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(analytics analyticsService, exports exportService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exports: exports}
}

// Report godoc
// @Summary Analytics report
// @Description Overview, domain, year, monthly, technology, activity and user statistics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AnalyticsReport
// @Failure 403 {object} response.ErrorBody
// @Router /analytics [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	report, cached, err := h.analytics.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Analytics data retrieved successfully", gin.H{
		"analytics":   report,
		"generatedAt": report.GeneratedAt,
		"cached":      cached,
	})
}

// Domain godoc
// @Summary Domain analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param domain path string true "Domain"
// @Success 200 {object} dto.DomainAnalytics
// @Failure 403 {object} response.ErrorBody
// @Router /analytics/domain/{domain} [get]
func (h *AnalyticsHandler) Domain(c *gin.Context) {
	detail, err := h.analytics.DomainDetail(c.Request.Context(), c.Param("domain"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Analytics for %s domain retrieved successfully", detail.Domain), gin.H{"analytics": detail})
}

// Export godoc
// @Summary Export project data
// @Description Full corpus as a json, csv, pdf or xlsx attachment
// @Tags Analytics
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "json (default), csv, pdf or xlsx"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorBody
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
