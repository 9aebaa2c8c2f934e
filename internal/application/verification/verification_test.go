package verification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creativeminds-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://cdn.example/bill.png", req.ImageURL)
		assert.Equal(t, "Prototype Development", req.MilestoneTitle)
		_, _ = w.Write([]byte(`{"is_appropriate":true,"bill_total":123.45,"vendor_name":"Props Inc","reasoning":"matches"}`))
	}))
	defer srv.Close()

	res, err := (&HTTPClient{URL: srv.URL}).Verify(context.Background(), Request{
		ImageURL:       "https://cdn.example/bill.png",
		MilestoneTitle: "Prototype Development",
	})
	require.NoError(t, err)
	assert.True(t, res.IsAppropriate)
	assert.Equal(t, 123.45, res.BillTotal)
	assert.Equal(t, "Props Inc", res.VendorName)
	assert.Equal(t, "https://cdn.example/bill.png", res.EvidenceURL)
	assert.False(t, res.Fallback)
}

func TestHTTPClient_MalformedResponses(t *testing.T) {
	bodies := []string{`{"bill_total":1}`, `not json`}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := (&HTTPClient{URL: srv.URL}).Verify(context.Background(), Request{ImageURL: "https://x.example/a.png"})
		assert.ErrorIs(t, err, domain.ErrExternalService, body)
		srv.Close()
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := (&HTTPClient{URL: srv.URL, Timeout: 20 * time.Millisecond}).Verify(context.Background(), Request{})
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

type failingVerifier struct{}

func (failingVerifier) Verify(ctx context.Context, req Request) (*domain.VerificationResult, error) {
	return nil, errors.New("unreachable")
}

func TestService_FallbackApprove(t *testing.T) {
	s := &Service{Verifier: failingVerifier{}, Fallback: FallbackPolicy{Mode: FallbackApprove, Amount: 50}}
	res := s.Verify(context.Background(), Request{ImageURL: "https://x.example/a.png"})
	assert.True(t, res.Fallback)
	assert.True(t, res.IsAppropriate)
	assert.Equal(t, 50.0, res.BillTotal)
	assert.Equal(t, "Unknown Vendor", res.VendorName)
	assert.Equal(t, "https://x.example/a.png", res.EvidenceURL)
}

func TestService_FallbackReject(t *testing.T) {
	s := &Service{Verifier: failingVerifier{}, Fallback: FallbackPolicy{Mode: FallbackReject, Amount: 50}}
	res := s.Verify(context.Background(), Request{ImageURL: "https://x.example/a.png"})
	assert.True(t, res.Fallback)
	assert.False(t, res.IsAppropriate)
	assert.Zero(t, res.BillTotal)
}

func TestService_NoVerifierUsesFallback(t *testing.T) {
	s := &Service{Fallback: FallbackPolicy{Amount: 10, Vendor: "Studio"}}
	res := s.Verify(context.Background(), Request{})
	assert.True(t, res.IsAppropriate)
	assert.Equal(t, "Studio", res.VendorName)
}
