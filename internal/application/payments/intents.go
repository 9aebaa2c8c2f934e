package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"
)

// IntentRequest describes the payment a contributor is about to make.
type IntentRequest struct {
	Amount       float64
	Currency     string
	ProjectID    string
	ProjectTitle string
}

// Intent is what the provider returns: an id to track the payment and a URL
// the contributor is redirected to.
type Intent struct {
	ID         string `json:"id"`
	PaymentURL string `json:"paymentUrl"`
}

// IntentCreator abstracts payment-intent creation for testability.
type IntentCreator interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

const (
	intentType    = "DELIVERY_VS_PAYMENT"
	releaseLocked = "MILESTONE_LOCKED"
)

// FinternetClient creates payment intents on the Finternet payment-intent API.
type FinternetClient struct {
	URL                   string
	APIKey                string
	SettlementMethod      string
	SettlementDestination string
	Timeout               time.Duration
	Client                *http.Client
}

type finternetRequest struct {
	Amount                string            `json:"amount"`
	Currency              string            `json:"currency"`
	Type                  string            `json:"type"`
	SettlementMethod      string            `json:"settlementMethod"`
	SettlementDestination string            `json:"settlementDestination"`
	Metadata              map[string]string `json:"metadata"`
}

type finternetResponse struct {
	ID   string `json:"id"`
	Data *struct {
		ID         string `json:"id"`
		PaymentURL string `json:"paymentUrl"`
	} `json:"data"`
}

func (c *FinternetClient) CreateIntent(ctx context.Context, in IntentRequest) (*Intent, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("%w: payments: PAYMENT_INTENT_URL is not set", domain.ErrExternalService)
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

	bodyBytes, err := json.Marshal(finternetRequest{
		Amount:                strconv.FormatFloat(in.Amount, 'f', 2, 64),
		Currency:              in.Currency,
		Type:                  intentType,
		SettlementMethod:      c.SettlementMethod,
		SettlementDestination: c.SettlementDestination,
		Metadata: map[string]string{
			"releaseType": releaseLocked,
			"projectId":   in.ProjectID,
		},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: payment intent request: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("payment intent request rejected")
		return nil, fmt.Errorf("%w: payment intent status %d", domain.ErrExternalService, resp.StatusCode)
	}

	var data finternetResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("%w: payment intent response decode: %v", domain.ErrExternalService, err)
	}
	if data.Data == nil || data.Data.PaymentURL == "" {
		return nil, fmt.Errorf("%w: payment intent response has no payment URL", domain.ErrExternalService)
	}
	id := data.Data.ID
	if id == "" {
		id = data.ID
	}
	if id == "" {
		return nil, fmt.Errorf("%w: payment intent response has no id", domain.ErrExternalService)
	}
	return &Intent{ID: id, PaymentURL: data.Data.PaymentURL}, nil
}
