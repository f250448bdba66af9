package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/internal/repository"
	"github.com/noah-isme/sra-panel-api/internal/stats"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

// StatsService computes course and cohort statistics over a session's
// record set with cache integration.
type StatsService struct {
	store   repository.SessionStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewStatsService constructs a statistics service.
func NewStatsService(store repository.SessionStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{store: store, cache: cache, metrics: metrics, logger: logger}
}

// statsPayload is the cached aggregation result for one session and filter.
type statsPayload struct {
	Courses []models.CourseStatistics `json:"courses"`
	Cohort  models.CohortMetrics      `json:"cohort"`
}

// Overview returns per-course statistics and cohort metrics for the session,
// narrowed by the filter. The boolean indicates whether data originated from cache.
func (s *StatsService) Overview(ctx context.Context, sessionID string, filter models.RecordFilter) ([]models.CourseStatistics, *models.CohortMetrics, bool, error) {
	cacheKey := makeStatsCacheKey(sessionID, "overview", filter)
	var cached statsPayload
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, nil, false, fmt.Errorf("get stats cache: %w", err)
		} else if hit {
			return cached.Courses, &cached.Cohort, true, nil
		}
	}

	records, err := s.filteredRecords(ctx, sessionID, filter)
	if err != nil {
		return nil, nil, false, err
	}

	start := time.Now()
	payload := statsPayload{
		Courses: stats.CourseStatistics(records),
		Cohort:  stats.CohortMetrics(records),
	}
	if s.metrics != nil {
		s.metrics.ObserveAggregation("overview", time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, payload, 0); err != nil {
			s.logger.Warn("cache stats overview", zap.Error(err))
		}
	}
	return payload.Courses, &payload.Cohort, false, nil
}

// Records returns the filtered record set page by page. Records never hit the
// cache: the dataset is already a single session-store read.
func (s *StatsService) Records(ctx context.Context, sessionID string, filter models.RecordFilter, page, pageSize int) ([]models.CourseRecord, *models.Pagination, error) {
	records, err := s.filteredRecords(ctx, sessionID, filter)
	if err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	total := len(records)
	startIdx := (page - 1) * pageSize
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + pageSize
	if endIdx > total {
		endIdx = total
	}

	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return records[startIdx:endIdx], pagination, nil
}

// AvailableCourses lists the distinct course codes of the full, unfiltered
// session dataset, so a narrowed view can still offer every filter option.
func (s *StatsService) AvailableCourses(ctx context.Context, sessionID string) ([]string, error) {
	dataset, err := s.store.GetDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return stats.AvailableCourses(dataset.Records), nil
}

// Derived computes the deterministic insight bundle for the session.
func (s *StatsService) Derived(ctx context.Context, sessionID string, filter models.RecordFilter) (*models.DerivedInsights, bool, error) {
	cacheKey := makeStatsCacheKey(sessionID, "derived", filter)
	var cached models.DerivedInsights
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, fmt.Errorf("get derived cache: %w", err)
		} else if hit {
			return &cached, true, nil
		}
	}

	records, err := s.filteredRecords(ctx, sessionID, filter)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	derived := stats.DeriveInsights(records)
	if s.metrics != nil {
		s.metrics.ObserveAggregation("derived", time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, derived, 0); err != nil {
			s.logger.Warn("cache derived insights", zap.Error(err))
		}
	}
	return &derived, false, nil
}

func (s *StatsService) filteredRecords(ctx context.Context, sessionID string, filter models.RecordFilter) ([]models.CourseRecord, error) {
	dataset, err := s.store.GetDataset(ctx, sessionID)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrSessionNotFound.Code {
			return nil, err
		}
		return nil, fmt.Errorf("load session dataset: %w", err)
	}
	return stats.ApplyFilter(dataset.Records, filter), nil
}

// makeStatsCacheKey builds a session-scoped cache key. Pattern
// "stats:<session>:*" invalidates all aggregates for one session.
func makeStatsCacheKey(sessionID, kind string, filter models.RecordFilter) string {
	course := "all"
	if filter.Course != nil && strings.TrimSpace(*filter.Course) != "" {
		course = strings.TrimSpace(*filter.Course)
	}
	return fmt.Sprintf("stats:%s:%s:%s", sessionID, kind, course)
}
