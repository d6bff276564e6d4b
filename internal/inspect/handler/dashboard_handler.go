package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	export *service.ExportService
}

func NewDashboardHandler(svc *service.DashboardService, export *service.ExportService) *DashboardHandler {
	return &DashboardHandler{svc: svc, export: export}
}

// Stats GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to compute stats: "+err.Error())
		return
	}

	Success(c, stats)
}

// ExportHistory GET /api/v1/inspections/export
func (h *DashboardHandler) ExportHistory(c *gin.Context) {
	f, filename, err := h.export.ExportHistory(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to export history: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
