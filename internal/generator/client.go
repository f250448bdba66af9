// Package generator is the boundary to the external narrative-insight
// service. It validates response shape, never semantic correctness: every
// number coming back is advisory.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/pkg/config"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

// legacyRenames is the enumerated compatibility table for response drift
// from older prompt versions: the old key is migrated to the new key when
// the new one is absent, then dropped.
var legacyRenames = map[string]string{
	"atRiskStudents": "studentsOnProbation",
	"scoreClusters":  "courseGradeDistributions",
}

// Client calls the insight gateway over HTTP with bounded retries.
type Client struct {
	httpClient *http.Client
	gatewayURL string
	apiKey     string
	model      string
	maxElapsed time.Duration
	logger     *zap.Logger
}

// NewClient constructs a gateway client from configuration.
func NewClient(cfg config.InsightsConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxElapsed := cfg.MaxElapsed
	if maxElapsed <= 0 {
		maxElapsed = 90 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxElapsed: maxElapsed,
		logger:     logger,
	}
}

type gatewayRequest struct {
	Model          string                   `json:"model,omitempty"`
	StudentResults []models.GeneratorRecord `json:"studentResults"`
}

// Generate sends one insight request and decodes the structured response.
// Server-side failures are retried with exponential backoff until the
// elapsed window runs out; client errors are terminal.
func (c *Client) Generate(ctx context.Context, req models.GeneratorRequest) (*models.AiInsights, error) {
	if c.gatewayURL == "" {
		return nil, appErrors.Clone(appErrors.ErrInsightsDisabled, "insight gateway not configured")
	}

	payload, err := json.Marshal(gatewayRequest{Model: c.model, StudentResults: req.StudentResults})
	if err != nil {
		return nil, fmt.Errorf("marshal generator request: %w", err)
	}

	var insights *models.AiInsights
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(body, 256))
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(body, 256)))
		}

		decoded, err := DecodeResponse(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		insights = decoded
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		c.logger.Warn("insight generation failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrGeneratorFailure.Code, appErrors.ErrGeneratorFailure.Status, "insight generation failed")
	}
	return insights, nil
}

// DecodeResponse parses a generator response body, repairing legacy field
// names before decoding into the typed schema.
func DecodeResponse(body []byte) (*models.AiInsights, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unschematized generator response: %w", err)
	}
	raw = RepairLegacyFields(raw)

	repaired, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var insights models.AiInsights
	if err := json.Unmarshal(repaired, &insights); err != nil {
		return nil, fmt.Errorf("decode generator response: %w", err)
	}
	insights.Normalize()
	return &insights, nil
}

// RepairLegacyFields migrates old field names in place: for each enumerated
// rename, the legacy key's contents move to the current key when the current
// key is absent, and the legacy key is removed.
func RepairLegacyFields(raw map[string]json.RawMessage) map[string]json.RawMessage {
	for old, current := range legacyRenames {
		value, hasOld := raw[old]
		if !hasOld {
			continue
		}
		if _, hasCurrent := raw[current]; !hasCurrent {
			raw[current] = value
		}
		delete(raw, old)
	}
	return raw
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
