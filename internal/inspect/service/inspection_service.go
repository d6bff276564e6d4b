package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/report"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/repository"
)

// ErrInspectionNotFound is returned when neither backend holds the
// requested record.
var ErrInspectionNotFound = errors.New("inspection not found")

const localIDPrefix = "local_"

// SubmitRequest is a full inspection submission: the raw form fields
// plus the repeated finding and personnel groups. Risk is never part
// of the request; it is derived here.
type SubmitRequest struct {
	Fields    map[string]string  `json:"fields" binding:"required"`
	Findings  []entity.Finding   `json:"findings"`
	Personnel []entity.Personnel `json:"personnel"`
}

// SubmitResult reports where the record landed and what came out of
// report generation.
type SubmitResult struct {
	ID           string            `json:"id"`
	Backend      string            `json:"backend"`
	RiskLevel    string            `json:"risk_level"`
	RiskRating   string            `json:"risk_rating"`
	Reports      []GeneratedReport `json:"reports"`
	ReportErrors []string          `json:"report_errors,omitempty"`
	FallbackNote string            `json:"fallback_note,omitempty"`
}

// InspectionService persists submissions remote-first with a local
// fallback, and drives report generation off each accepted record.
type InspectionService struct {
	repo      *repository.InspectionRepository
	local     *repository.LocalStore
	reports   *ReportService
	dashboard *DashboardService
	logger    *zap.Logger
}

func NewInspectionService(repo *repository.InspectionRepository, local *repository.LocalStore, reports *ReportService, dashboard *DashboardService, logger *zap.Logger) *InspectionService {
	return &InspectionService{
		repo:      repo,
		local:     local,
		reports:   reports,
		dashboard: dashboard,
		logger:    logger,
	}
}

// Submit stores a new inspection and generates its reports. The remote
// database is tried first; if it is unavailable or the write fails the
// record goes to the local store instead, and the result says so.
func (s *InspectionService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	inspection, err := s.buildRecord(uuid.New().String(), req)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		ID:         inspection.ID,
		Backend:    entity.BackendRemote,
		RiskLevel:  inspection.RiskLevel,
		RiskRating: inspection.RiskRating,
	}

	saved := false
	if s.repo != nil {
		if err := s.repo.Create(ctx, inspection); err != nil {
			s.logger.Warn("remote save failed, falling back to local store",
				zap.String("id", inspection.ID), zap.Error(err))
		} else {
			saved = true
		}
	}
	if !saved {
		rowID, err := s.local.Append(ctx, inspection)
		if err != nil {
			return nil, fmt.Errorf("save inspection: %w", err)
		}
		result.ID = localID(rowID)
		result.Backend = entity.BackendLocal
		result.FallbackNote = "Remote database unavailable. Inspection was saved to the local store."
		inspection.ID = result.ID
	}

	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
	result.Reports, result.ReportErrors = s.reports.Generate(ctx, inspection)
	return result, nil
}

// Update replaces an existing inspection wholesale and regenerates its
// reports. A remote record whose update fails is re-saved as a NEW
// local record rather than lost, and the caller is told the copy
// diverged.
func (s *InspectionService) Update(ctx context.Context, id string, req *SubmitRequest) (*SubmitResult, error) {
	inspection, err := s.buildRecord(id, req)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		ID:         id,
		RiskLevel:  inspection.RiskLevel,
		RiskRating: inspection.RiskRating,
	}

	if rowID, ok := parseLocalID(id); ok {
		if err := s.local.Update(ctx, rowID, inspection); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInspectionNotFound
			}
			return nil, err
		}
		result.Backend = entity.BackendLocal
	} else {
		inspection.ID = id
		updated := false
		if s.repo != nil {
			if err := s.repo.Update(ctx, inspection); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrInspectionNotFound
				}
				s.logger.Warn("remote update failed, saving local copy",
					zap.String("id", id), zap.Error(err))
			} else {
				updated = true
				result.Backend = entity.BackendRemote
			}
		}
		if !updated {
			rowID, err := s.local.Append(ctx, inspection)
			if err != nil {
				return nil, fmt.Errorf("update inspection: %w", err)
			}
			result.ID = localID(rowID)
			result.Backend = entity.BackendLocal
			result.FallbackNote = "Remote record could not be updated. Changes were saved as a NEW local copy."
			inspection.ID = result.ID
		}
	}

	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
	result.Reports, result.ReportErrors = s.reports.Generate(ctx, inspection)
	return result, nil
}

// List merges both backends into one history, newest submission first.
// Records are never deduplicated across backends; a fallback copy and
// its remote original both appear.
func (s *InspectionService) List(ctx context.Context) ([]entity.Inspection, error) {
	var merged []entity.Inspection

	if s.repo != nil {
		remote, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Warn("remote list failed, serving local records only", zap.Error(err))
		} else {
			for i := range remote {
				remote[i].Source = entity.BackendRemote
			}
			merged = append(merged, remote...)
		}
	}

	// A read failure on one backend degrades to the other's records.
	local, err := s.local.List(ctx)
	if err != nil {
		s.logger.Warn("local list failed, serving remote records only", zap.Error(err))
	} else {
		merged = append(merged, local...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged, nil
}

// Get resolves an inspection by ID. Local IDs carry the "local_"
// prefix; anything else is looked up remotely.
func (s *InspectionService) Get(ctx context.Context, id string) (*entity.Inspection, error) {
	if rowID, ok := parseLocalID(id); ok {
		inspection, err := s.local.Get(ctx, rowID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInspectionNotFound
		}
		return inspection, err
	}

	if s.repo == nil {
		return nil, ErrInspectionNotFound
	}
	inspection, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInspectionNotFound
	}
	if err != nil {
		return nil, err
	}
	inspection.Source = entity.BackendRemote
	return inspection, nil
}

// Delete removes an inspection from whichever backend its ID names.
func (s *InspectionService) Delete(ctx context.Context, id string) error {
	var err error
	if rowID, ok := parseLocalID(id); ok {
		err = s.local.Delete(ctx, rowID)
	} else if s.repo != nil {
		err = s.repo.Delete(ctx, id)
	} else {
		err = repository.ErrNotFound
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInspectionNotFound
	}
	if err != nil {
		return err
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
	return nil
}

// buildRecord normalizes the submitted fields, expands the repeated
// groups and derives the risk tier, producing the persisted form.
func (s *InspectionService) buildRecord(id string, req *SubmitRequest) (*entity.Inspection, error) {
	now := time.Now()
	fields := report.Normalize(req.Fields, now)
	findings := report.ExpandFindings(req.Findings)
	personnel := report.ExpandPersonnel(req.Personnel)
	risk := report.Classify(findings)

	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return nil, fmt.Errorf("encode findings: %w", err)
	}
	personnelJSON, err := json.Marshal(personnel)
	if err != nil {
		return nil, fmt.Errorf("encode personnel: %w", err)
	}

	return &entity.Inspection{
		ID:             id,
		FacilityName:   fields["facility_name"],
		InspectionDate: fields["inspection_date"],
		RiskLevel:      risk.Level,
		RiskRating:     risk.Rating,
		Status:         entity.StatusCompleted,
		Fields:         fieldsJSON,
		Findings:       findingsJSON,
		Personnel:      personnelJSON,
		Timestamp:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func localID(rowID int64) string {
	return localIDPrefix + strconv.FormatInt(rowID, 10)
}

func parseLocalID(id string) (int64, bool) {
	if !strings.HasPrefix(id, localIDPrefix) {
		return 0, false
	}
	rowID, err := strconv.ParseInt(strings.TrimPrefix(id, localIDPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return rowID, true
}
