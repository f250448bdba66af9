package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sra-panel-api/internal/ingest"
	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/internal/repository"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

// DatasetService owns the session lifecycle: uploads create or replace the
// session's record set, and every replacement destroys cached aggregates and
// previously generated insights.
type DatasetService struct {
	store  repository.SessionStore
	cache  *CacheService
	logger *zap.Logger
}

// NewDatasetService constructs a dataset service.
func NewDatasetService(store repository.SessionStore, cache *CacheService, logger *zap.Logger) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{store: store, cache: cache, logger: logger}
}

// Upload parses the spreadsheet and installs it as the session's dataset.
// An empty sessionID mints a new session; a known sessionID replaces its
// data wholesale. Files where no row survives normalisation are rejected.
func (s *DatasetService) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (*models.Dataset, error) {
	report, err := ingest.Parse(fileName, r)
	if err != nil {
		return nil, err
	}
	if len(report.Records) == 0 {
		detail := "no usable rows in uploaded file"
		if len(report.Diagnostics) > 0 {
			detail = fmt.Sprintf("%s: %s", detail, strings.Join(report.Diagnostics, "; "))
		}
		return nil, appErrors.Clone(appErrors.ErrEmptyDataset, detail)
	}

	if strings.TrimSpace(sessionID) == "" {
		sessionID = uuid.NewString()
	}

	dataset := &models.Dataset{
		SessionID:   sessionID,
		FileName:    fileName,
		Records:     report.Records,
		Diagnostics: report.Diagnostics,
	}
	if err := s.store.SaveDataset(ctx, dataset); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}

	// New data invalidates insights derived from the old data.
	idle := &models.InsightState{Status: models.InsightStatusIdle, RequestedAt: time.Now().UTC()}
	if err := s.store.SaveInsights(ctx, sessionID, idle); err != nil {
		s.logger.Warn("reset insight state", zap.String("session_id", sessionID), zap.Error(err))
	}
	s.invalidateAggregates(ctx, sessionID)

	s.logger.Info("dataset uploaded",
		zap.String("session_id", sessionID),
		zap.String("file_name", fileName),
		zap.Int("records", len(report.Records)),
		zap.Int("diagnostics", len(report.Diagnostics)),
	)
	return dataset, nil
}

// Get returns the session's dataset.
func (s *DatasetService) Get(ctx context.Context, sessionID string) (*models.Dataset, error) {
	return s.store.GetDataset(ctx, sessionID)
}

// Clear removes the session along with its cached aggregates.
func (s *DatasetService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.invalidateAggregates(ctx, sessionID)
	return nil
}

func (s *DatasetService) invalidateAggregates(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "stats:"+sessionID+":*"); err != nil {
		s.logger.Warn("invalidate stats cache", zap.String("session_id", sessionID), zap.Error(err))
	}
}
