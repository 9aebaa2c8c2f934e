package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"

	"github.com/google/uuid"
)

// Stats is the analytics API response for one project.
type Stats struct {
	Stats struct {
		Views int64 `json:"views"`
		Likes int64 `json:"likes"`
	} `json:"stats"`
	Monetization struct {
		EstimatedRevenueUSD float64 `json:"estimated_revenue_usd"`
	} `json:"monetization"`
}

// Source fetches realized revenue figures for a project.
type Source interface {
	ProjectStats(ctx context.Context, projectID uuid.UUID) (*Stats, error)
}

// HTTPClient reads stats from GET {BaseURL}/projects/{id}/stats.
type HTTPClient struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

func (c *HTTPClient) ProjectStats(ctx context.Context, projectID uuid.UUID) (*Stats, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("%w: analytics: ANALYTICS_URL is not set", domain.ErrExternalService)
	}
	if c.Client == nil {
		c.Client = &http.Client{}
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s/projects/%s/stats", strings.TrimRight(c.BaseURL, "/"), projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: analytics request: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("analytics returned an error")
		return nil, fmt.Errorf("%w: analytics status %d", domain.ErrExternalService, resp.StatusCode)
	}
	var out Stats
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: analytics response decode: %v", domain.ErrExternalService, err)
	}
	return &out, nil
}
