package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/repository"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/shared/docx"
)

// Services is the service set.
type Services struct {
	Auth       *AuthService
	Inspection *InspectionService
	Report     *ReportService
	Dashboard  *DashboardService
	Export     *ExportService
}

// NewServices wires the service set. The remote repository may be nil
// when the database is unreachable; the stack then runs local-only.
func NewServices(repo *repository.InspectionRepository, local *repository.LocalStore, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio unavailable, storing reports on disk", zap.Error(err))
			minioClient = nil
		}
	}

	templates := docx.NewTemplateStore(minioClient, cfg.MinIO.Bucket, cfg.Report.TemplatePrefix, cfg.Report.TemplateDir)
	reports := NewReportService(templates, minioClient, cfg, logger)
	dashboard := NewDashboardService(repo, local, rdb, logger)
	inspections := NewInspectionService(repo, local, reports, dashboard, logger)

	return &Services{
		Auth:       NewAuthService(rdb, cfg),
		Inspection: inspections,
		Report:     reports,
		Dashboard:  dashboard,
		Export:     NewExportService(inspections),
	}
}
