package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/config"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/report"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/shared/docx"
)

// GeneratedReport describes one rendered report document.
type GeneratedReport struct {
	Name     string    `json:"name"`
	Object   string    `json:"object"`
	Size     int64     `json:"size"`
	Template string    `json:"template,omitempty"`
	SavedAt  time.Time `json:"saved_at,omitempty"`
}

// ReportService renders the configured document set for a submitted
// inspection and stores the results, either in object storage or on
// the local output directory.
type ReportService struct {
	templates *docx.TemplateStore
	client    *minio.Client
	cfg       *config.Config
	logger    *zap.Logger
}

func NewReportService(templates *docx.TemplateStore, client *minio.Client, cfg *config.Config, logger *zap.Logger) *ReportService {
	return &ReportService{
		templates: templates,
		client:    client,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate renders every configured template for the inspection. A
// template that fails to load or render does not stop the rest: the
// loop always runs to completion and reports per-template errors so
// one missing file cannot block the other documents.
func (s *ReportService) Generate(ctx context.Context, inspection *entity.Inspection) ([]GeneratedReport, []string) {
	fields, err := inspection.DecodeFields()
	if err != nil {
		return nil, []string{fmt.Sprintf("decode fields: %v", err)}
	}
	findings, err := inspection.DecodeFindings()
	if err != nil {
		return nil, []string{fmt.Sprintf("decode findings: %v", err)}
	}
	personnel, err := inspection.DecodePersonnel()
	if err != nil {
		return nil, []string{fmt.Sprintf("decode personnel: %v", err)}
	}

	data := report.BuildContext(fields, findings, personnel, time.Now())
	facility := inspection.FacilityName
	if facility == "" {
		facility = "Report"
	}

	var (
		generated []GeneratedReport
		errs      []string
	)
	for _, tmpl := range s.cfg.Report.Templates {
		name := fmt.Sprintf("%s %s.docx", facility, tmpl.Suffix)

		raw, err := s.templates.Load(ctx, tmpl.Name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: load template: %v", tmpl.Name, err))
			continue
		}

		rendered, err := docx.Render(raw, data)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: render: %v", tmpl.Name, err))
			continue
		}

		object, err := s.store(ctx, inspection.ID, name, rendered)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: store: %v", name, err))
			continue
		}

		generated = append(generated, GeneratedReport{
			Name:     name,
			Object:   object,
			Size:     int64(len(rendered)),
			Template: tmpl.Name,
			SavedAt:  time.Now(),
		})
	}

	if len(errs) > 0 && s.logger != nil {
		s.logger.Warn("report generation finished with errors",
			zap.String("inspection_id", inspection.ID),
			zap.Int("generated", len(generated)),
			zap.Strings("errors", errs))
	}
	return generated, errs
}

func (s *ReportService) store(ctx context.Context, inspectionID, name string, content []byte) (string, error) {
	object := path.Join(s.cfg.Report.OutputPrefix, inspectionID, name)
	if s.client != nil {
		_, err := s.client.PutObject(ctx, s.cfg.MinIO.Bucket, object,
			bytes.NewReader(content), int64(len(content)),
			minio.PutObjectOptions{ContentType: docxContentType})
		if err != nil {
			return "", err
		}
		return object, nil
	}

	dir := filepath.Join(s.cfg.Report.OutputDir, inspectionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return "", err
	}
	return object, nil
}

// List returns the stored reports for one inspection, newest first.
func (s *ReportService) List(ctx context.Context, inspectionID string) ([]GeneratedReport, error) {
	if s.client != nil {
		prefix := path.Join(s.cfg.Report.OutputPrefix, inspectionID) + "/"
		var reports []GeneratedReport
		for object := range s.client.ListObjects(ctx, s.cfg.MinIO.Bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				return nil, object.Err
			}
			reports = append(reports, GeneratedReport{
				Name:    path.Base(object.Key),
				Object:  object.Key,
				Size:    object.Size,
				SavedAt: object.LastModified,
			})
		}
		sortReports(reports)
		return reports, nil
	}

	dir := filepath.Join(s.cfg.Report.OutputDir, inspectionID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var reports []GeneratedReport
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		reports = append(reports, GeneratedReport{
			Name:    e.Name(),
			Object:  path.Join(s.cfg.Report.OutputPrefix, inspectionID, e.Name()),
			Size:    info.Size(),
			SavedAt: info.ModTime(),
		})
	}
	sortReports(reports)
	return reports, nil
}

// Download streams one stored report addressed by inspection and
// document name.
func (s *ReportService) Download(ctx context.Context, inspectionID, name string) ([]byte, error) {
	if strings.ContainsAny(inspectionID, "/\\") || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("invalid report name %q", name)
	}

	if s.client != nil {
		object := path.Join(s.cfg.Report.OutputPrefix, inspectionID, name)
		obj, err := s.client.GetObject(ctx, s.cfg.MinIO.Bucket, object, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		defer obj.Close()
		return io.ReadAll(obj)
	}

	return os.ReadFile(filepath.Join(s.cfg.Report.OutputDir, inspectionID, name))
}

func sortReports(reports []GeneratedReport) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].SavedAt.After(reports[j].SavedAt)
	})
}

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
