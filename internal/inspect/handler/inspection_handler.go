package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
)

type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// stampSubmitter records the authenticated identity on the submission.
func stampSubmitter(c *gin.Context, req *service.SubmitRequest) {
	if req.Fields == nil {
		return
	}
	if uid := GetUserID(c); uid != "" {
		req.Fields["submitted_by"] = uid
	}
}

// Submit POST /api/v1/inspections
func (h *InspectionHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid submission: "+err.Error())
		return
	}
	stampSubmitter(c, &req)

	result, err := h.svc.Submit(c.Request.Context(), &req)
	if err != nil {
		InternalError(c, "failed to save inspection: "+err.Error())
		return
	}

	Created(c, result)
}

// Update PUT /api/v1/inspections/:id
func (h *InspectionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid submission: "+err.Error())
		return
	}
	stampSubmitter(c, &req)

	result, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrInspectionNotFound) {
			NotFound(c, "inspection not found")
			return
		}
		InternalError(c, "failed to update inspection: "+err.Error())
		return
	}

	Success(c, result)
}

// List GET /api/v1/inspections
func (h *InspectionHandler) List(c *gin.Context) {
	inspections, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to list inspections: "+err.Error())
		return
	}

	Success(c, gin.H{"items": inspections, "total": len(inspections)})
}

// Get GET /api/v1/inspections/:id
func (h *InspectionHandler) Get(c *gin.Context) {
	inspection, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInspectionNotFound) {
			NotFound(c, "inspection not found")
			return
		}
		InternalError(c, "failed to load inspection: "+err.Error())
		return
	}

	Success(c, inspection)
}

// Delete DELETE /api/v1/inspections/:id
func (h *InspectionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrInspectionNotFound) {
			NotFound(c, "inspection not found")
			return
		}
		InternalError(c, "failed to delete inspection: "+err.Error())
		return
	}

	Success(c, gin.H{"deleted": true})
}
