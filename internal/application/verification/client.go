package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"
)

// Verifier judges whether uploaded evidence matches a milestone's claimed expense.
type Verifier interface {
	Verify(ctx context.Context, req Request) (*domain.VerificationResult, error)
}

// Request is the body sent to the bill verification API.
type Request struct {
	ImageURL             string `json:"image_url"`
	MilestoneTitle       string `json:"milestone_title"`
	MilestoneDescription string `json:"milestone_description"`
}

// HTTPClient is a Verifier backed by the external bill verification endpoint.
// One attempt per call, no retries.
type HTTPClient struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

type verifyResponse struct {
	IsAppropriate *bool    `json:"is_appropriate"`
	BillTotal     *float64 `json:"bill_total"`
	VendorName    string   `json:"vendor_name"`
	Reasoning     string   `json:"reasoning"`
}

func (c *HTTPClient) Verify(ctx context.Context, in Request) (*domain.VerificationResult, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("%w: verifier: VERIFIER_URL is not set", domain.ErrExternalService)
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

	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: verifier request: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("verifier returned an error")
		return nil, fmt.Errorf("%w: verifier status %d", domain.ErrExternalService, resp.StatusCode)
	}

	var data verifyResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("%w: verifier response decode: %v", domain.ErrExternalService, err)
	}
	if data.IsAppropriate == nil {
		return nil, fmt.Errorf("%w: verifier response missing is_appropriate", domain.ErrExternalService)
	}

	out := &domain.VerificationResult{
		IsAppropriate: *data.IsAppropriate,
		VendorName:    data.VendorName,
		Reasoning:     data.Reasoning,
		EvidenceURL:   in.ImageURL,
		VerifiedAt:    time.Now(),
	}
	if data.BillTotal != nil {
		out.BillTotal = *data.BillTotal
	}
	return out, nil
}
