package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/repository"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/service"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/middleware"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/shared/docx"
)

const JWTSecret = "gsdp-inspect-test-secret"

// TestEnv wires the full service stack onto a throwaway local store.
// No remote database, redis or object storage is involved, so every
// write exercises the local fallback path.
type TestEnv struct {
	Cfg         *config.Config
	Local       *repository.LocalStore
	Inspections *service.InspectionService
	Reports     *service.ReportService
	Dashboard   *service.DashboardService
	Export      *service.ExportService
	Auth        *service.AuthService
	TemplateDir string
	T           *testing.T
}

// SetupEnv builds a local-only environment rooted in t.TempDir.
func SetupEnv(t *testing.T) *TestEnv {
	t.Helper()

	root := t.TempDir()
	templateDir := filepath.Join(root, "templates")

	cfg := &config.Config{}
	cfg.JWT.Secret = JWTSecret
	cfg.JWT.Issuer = "gsdp-inspect"
	cfg.JWT.AccessTokenExpire = time.Hour
	cfg.JWT.RefreshTokenExpire = 24 * time.Hour
	cfg.Auth.AllowGuest = true
	cfg.Auth.Users = []config.User{
		{Username: "inspector", Password: "inspector123", Name: "Test Inspector", Email: "inspector@test.com"},
	}
	cfg.Report.TemplateDir = templateDir
	cfg.Report.OutputPrefix = "reports"
	cfg.Report.OutputDir = filepath.Join(root, "reports")
	cfg.Report.Templates = []config.Template{
		{Name: "TEMPLATE.docx", Suffix: "GSDP Report"},
	}

	local, err := repository.OpenLocalStore(filepath.Join(root, "local.db"))
	if err != nil {
		t.Fatalf("Failed to open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	logger := zap.NewNop()
	templates := docx.NewTemplateStore(nil, "", "", templateDir)
	reports := service.NewReportService(templates, nil, cfg, logger)
	dashboard := service.NewDashboardService(nil, local, nil, logger)
	inspections := service.NewInspectionService(nil, local, reports, dashboard, logger)
	export := service.NewExportService(inspections)
	auth := service.NewAuthService(nil, cfg)

	return &TestEnv{
		Cfg:         cfg,
		Local:       local,
		Inspections: inspections,
		Reports:     reports,
		Dashboard:   dashboard,
		Export:      export,
		Auth:        auth,
		TemplateDir: templateDir,
		T:           t,
	}
}

// WriteTemplate drops a minimal report template into the template dir.
func (e *TestEnv) WriteTemplate(name, documentXML string) {
	e.T.Helper()
	content, err := docx.WriteDocument(documentXML)
	if err != nil {
		e.T.Fatalf("Failed to build template: %v", err)
	}
	if err := writeFile(filepath.Join(e.TemplateDir, name), content); err != nil {
		e.T.Fatalf("Failed to write template: %v", err)
	}
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group guarded by JWT auth.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid access token for tests.
func GenerateTestToken(username, name, email string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   username,
		"name":  name,
		"email": email,
		"guest": false,
		"iss":   "gsdp-inspect",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default test inspector.
func DefaultTestToken() string {
	return GenerateTestToken("test-inspector", "Test Inspector", "inspector@test.com")
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}
