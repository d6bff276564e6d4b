package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// List GET /api/v1/inspections/:id/reports
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "failed to list reports: "+err.Error())
		return
	}

	Success(c, gin.H{"items": reports, "total": len(reports)})
}

// Download GET /api/v1/inspections/:id/reports/:name
func (h *ReportHandler) Download(c *gin.Context) {
	id := c.Param("id")
	name := c.Param("name")

	content, err := h.svc.Download(c.Request.Context(), id, name)
	if err != nil {
		NotFound(c, "report not found")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", content)
}
