package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/internal/repository"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/jobs"
)

// GeneratorClient calls the outbound narrative-insight gateway.
type GeneratorClient interface {
	Generate(ctx context.Context, req models.GeneratorRequest) (*models.AiInsights, error)
}

// InsightService runs fire-and-overwrite insight generation per session.
// Each request snapshots the session's records, runs in the background and
// overwrites the session's insight slot when done. There are no retries and
// no partial results: the latest finished request wins.
type InsightService struct {
	store   repository.SessionStore
	client  GeneratorClient
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
	timeout time.Duration
}

// InsightServiceParams configures InsightService construction.
type InsightServiceParams struct {
	Store          repository.SessionStore
	Client         GeneratorClient
	Metrics        *MetricsService
	Logger         *zap.Logger
	Enabled        bool
	Workers        int
	RequestTimeout time.Duration
}

type insightJob struct {
	SessionID   string
	RequestedAt time.Time
	Records     []models.CourseRecord
}

// NewInsightService constructs the service and its background queue. Call
// Start before accepting requests and Stop on shutdown.
func NewInsightService(params InsightServiceParams) *InsightService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.RequestTimeout <= 0 {
		params.RequestTimeout = 60 * time.Second
	}
	s := &InsightService{
		store:   params.Store,
		client:  params.Client,
		metrics: params.Metrics,
		logger:  params.Logger,
		enabled: params.Enabled,
		timeout: params.RequestTimeout,
	}
	s.queue = jobs.NewQueue("insight-generation", s.process, jobs.QueueConfig{
		Workers: params.Workers,
		Logger:  params.Logger,
	})
	return s
}

// Start launches the background workers.
func (s *InsightService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue and waits for in-flight generations.
func (s *InsightService) Stop() {
	s.queue.Stop()
}

// Request snapshots the session's records and enqueues one generation run.
// An empty record set completes immediately with all-empty categories and
// never reaches the gateway.
func (s *InsightService) Request(ctx context.Context, sessionID string) (*models.InsightState, error) {
	if !s.enabled {
		return nil, appErrors.ErrInsightsDisabled
	}

	dataset, err := s.store.GetDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if len(dataset.Records) == 0 {
		finished := now
		state := &models.InsightState{
			Status:      models.InsightStatusReady,
			Insights:    models.EmptyAiInsights(),
			RequestedAt: now,
			FinishedAt:  &finished,
		}
		if err := s.store.SaveInsights(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	state := &models.InsightState{Status: models.InsightStatusRunning, RequestedAt: now}
	if err := s.store.SaveInsights(ctx, sessionID, state); err != nil {
		return nil, err
	}

	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: "generate-insights",
		Payload: insightJob{
			SessionID:   sessionID,
			RequestedAt: now,
			Records:     dataset.Records,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		failed := &models.InsightState{
			Status:      models.InsightStatusFailed,
			Error:       "generation queue unavailable",
			RequestedAt: now,
		}
		if saveErr := s.store.SaveInsights(ctx, sessionID, failed); saveErr != nil {
			s.logger.Warn("save failed insight state", zap.Error(saveErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrGeneratorFailure.Code, appErrors.ErrGeneratorFailure.Status, "could not enqueue insight generation")
	}
	return state, nil
}

// Status returns the session's current insight slot. Sessions that never
// requested generation report idle.
func (s *InsightService) Status(ctx context.Context, sessionID string) (*models.InsightState, error) {
	if _, err := s.store.GetDataset(ctx, sessionID); err != nil {
		return nil, err
	}
	state, err := s.store.GetInsights(ctx, sessionID)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrSessionNotFound.Code {
			return &models.InsightState{Status: models.InsightStatusIdle}, nil
		}
		return nil, err
	}
	return state, nil
}

func (s *InsightService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(insightJob)
	if !ok {
		s.logger.Error("unexpected job payload", zap.String("job_id", job.ID))
		return appErrors.ErrInternal
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := models.GeneratorRequest{StudentResults: toGeneratorRecords(payload.Records)}

	start := time.Now()
	insights, err := s.client.Generate(callCtx, req)
	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveGeneratorCall(err == nil, duration)
	}

	finished := time.Now().UTC()
	state := &models.InsightState{
		Status:      models.InsightStatusReady,
		Insights:    insights,
		RequestedAt: payload.RequestedAt,
		FinishedAt:  &finished,
	}
	if err != nil {
		state = &models.InsightState{
			Status:      models.InsightStatusFailed,
			Error:       appErrors.FromError(err).Message,
			RequestedAt: payload.RequestedAt,
			FinishedAt:  &finished,
		}
		s.logger.Warn("insight generation failed",
			zap.String("session_id", payload.SessionID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		s.logger.Info("insight generation finished",
			zap.String("session_id", payload.SessionID),
			zap.Duration("duration", duration),
		)
	}

	// A newer request or upload supersedes this run; its outcome is dropped.
	current, getErr := s.store.GetInsights(ctx, payload.SessionID)
	if getErr == nil && current.RequestedAt.After(payload.RequestedAt) {
		s.logger.Debug("stale insight result discarded", zap.String("session_id", payload.SessionID))
		return nil
	}

	if saveErr := s.store.SaveInsights(ctx, payload.SessionID, state); saveErr != nil {
		s.logger.Warn("save insight state", zap.String("session_id", payload.SessionID), zap.Error(saveErr))
		return saveErr
	}
	return err
}

func toGeneratorRecords(records []models.CourseRecord) []models.GeneratorRecord {
	out := make([]models.GeneratorRecord, 0, len(records))
	for _, r := range records {
		out = append(out, models.GeneratorRecord{
			MatricNo:    r.MatricNo,
			StudentName: r.StudentName,
			CourseCode:  r.CourseCode,
			CourseTitle: r.CourseTitle,
			CreditUnits: r.CreditUnits,
			Level:       r.Level,
			Semester:    r.Semester,
			Grade:       r.Grade,
			GP:          r.GradePoint,
			GPA:         r.GPA,
			CGPA:        r.CGPA,
		})
	}
	return out
}
