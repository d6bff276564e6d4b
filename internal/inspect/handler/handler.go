package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
)

// Handlers is the HTTP handler set.
type Handlers struct {
	Auth       *AuthHandler
	Inspection *InspectionHandler
	Report     *ReportHandler
	Dashboard  *DashboardHandler
}

func NewHandlers(auth *service.AuthService, inspections *service.InspectionService, reports *service.ReportService, dashboard *service.DashboardService, export *service.ExportService, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(auth, cfg),
		Inspection: NewInspectionHandler(inspections),
		Report:     NewReportHandler(reports),
		Dashboard:  NewDashboardHandler(dashboard, export),
	}
}

// Response is the common response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID returns the authenticated username from the request
// context, empty for unauthenticated requests.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
