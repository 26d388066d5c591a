package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bpariverside/skillswap-service/internal/services"
	"github.com/bpariverside/skillswap-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportSessions streams the session report workbook as a download.
func (h *ReportHandler) ExportSessions(c *gin.Context) {
	h.LogRequest(c, "exporting session report")

	filename := fmt.Sprintf("sessions-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.reportService.ExportSessions(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; log and drop the connection.
		utils.LoggerFromContext(c.Request.Context(), h.logger).Error("session export failed", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}
