package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/repository"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 5 * time.Minute
)

// Stats is the dashboard rollup across both backends.
type Stats struct {
	Total  int64 `json:"total"`
	High   int64 `json:"high_risk"`
	Medium int64 `json:"medium_risk"`
	Low    int64 `json:"low_risk"`
	Local  int64 `json:"local_only"`
}

// DashboardService computes history rollups, cached in redis when a
// client is configured.
type DashboardService struct {
	repo   *repository.InspectionRepository
	local  *repository.LocalStore
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDashboardService(repo *repository.InspectionRepository, local *repository.LocalStore, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		local:  local,
		rdb:    rdb,
		logger: logger,
	}
}

// GetStats returns the cached rollup, computing it on a miss. Records
// from both backends count; a record tells its tier through either its
// risk_level or risk_rating column so older rows still classify.
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &Stats{}

	if s.repo != nil {
		remote, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Warn("dashboard remote query failed, counting local only", zap.Error(err))
		} else {
			for i := range remote {
				countRecord(stats, &remote[i])
			}
		}
	}

	local, err := s.local.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range local {
		countRecord(stats, &local[i])
		stats.Local++
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, statsCacheKey, payload, statsCacheTTL)
		}
	}
	return stats, nil
}

// Invalidate drops the cached rollup after any write.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func countRecord(stats *Stats, inspection *entity.Inspection) {
	stats.Total++
	switch {
	case inspection.RiskLevel == entity.RiskLevelHigh || inspection.RiskRating == entity.RiskRatingA:
		stats.High++
	case inspection.RiskLevel == entity.RiskLevelMedium || inspection.RiskRating == entity.RiskRatingB:
		stats.Medium++
	default:
		stats.Low++
	}
}
