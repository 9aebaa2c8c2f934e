package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"creativeminds-backend/internal/config"
	"creativeminds-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
}

type harness struct {
	t          *testing.T
	app        *fiber.App
	paymentsUp atomic.Bool
}

func newHarness(t *testing.T) *harness {
	h := &harness{t: t}
	h.paymentsUp.Store(true)

	var intents atomic.Int64
	payments := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.paymentsUp.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		n := intents.Add(1)
		fmt.Fprintf(w, `{"data":{"id":"pi_%d","paymentUrl":"https://pay.example/pi_%d"}}`, n, n)
	}))
	t.Cleanup(payments.Close)

	verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"is_appropriate":true,"bill_total":100,"vendor_name":"Studio Rentals","reasoning":"ok"}`))
	}))
	t.Cleanup(verifier.Close)

	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	cfg := &config.Config{
		Env:               "test",
		PaymentProvider:   "finternet",
		PaymentIntentURL:  payments.URL,
		PaymentCurrency:   "USD",
		VerifierURL:       verifier.URL,
		VerifierFallback:  "approve",
		ReimburseFallback: 50,
		VerdictTTL:        30 * time.Minute,
		ExternalTimeout:   2 * time.Second,
		EvidenceBucket:    "milestone-evidence",
	}
	h.app = Build(cfg, db, rdb)
	return h
}

func (h *harness) do(method, path string, body interface{}) (int, envelope) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (h *harness) createProject() string {
	code, env := h.do("POST", "/api/v1/projects/create-project", map[string]interface{}{
		"title":    "Documentary",
		"category": "Film",
		"timeline": []string{"research", "shoot", "edit", "release"},
		"budget":   []float64{100, 100, 100, 100},
	})
	require.Equal(h.t, 201, code, env.Error.Message)
	p := decode[struct {
		ID string `json:"id"`
	}](h.t, env.Data)
	return p.ID
}

func TestFullLifecycle(t *testing.T) {
	h := newHarness(t)
	id := h.createProject()

	code, env := h.do("POST", "/api/v1/donations/initiate", map[string]interface{}{
		"project_id": id, "amount": 500, "user_id": "alice",
	})
	require.Equal(t, 201, code, env.Error.Message)
	donation := decode[struct {
		IntentID   string  `json:"intent_id"`
		PaymentURL string  `json:"payment_url"`
		PoolTotal  float64 `json:"pool_total"`
	}](t, env.Data)
	assert.Equal(t, "pi_1", donation.IntentID)
	assert.Equal(t, 500.0, donation.PoolTotal)

	for i := 0; i < 4; i++ {
		code, env = h.do("POST", fmt.Sprintf("/api/v1/projects/%s/milestones/%d/evidence", id, i), map[string]string{
			"evidence_url": fmt.Sprintf("https://cdn.example/bill-%d.png", i),
		})
		require.Equal(t, 200, code, env.Error.Message)

		code, env = h.do("POST", fmt.Sprintf("/api/v1/projects/%s/milestones/%d/reimburse", id, i), nil)
		require.Equal(t, 200, code, env.Error.Message)
	}

	code, env = h.do("GET", "/api/v1/projects/"+id, nil)
	require.Equal(t, 200, code)
	view := decode[struct {
		Project struct {
			Completed       bool    `json:"completed"`
			FullyReimbursed bool    `json:"fullyReimbursed"`
			Progress        float64 `json:"progress"`
		} `json:"project"`
		Milestones []struct {
			Status string `json:"status"`
		} `json:"milestones"`
	}](t, env.Data)
	assert.True(t, view.Project.Completed)
	assert.True(t, view.Project.FullyReimbursed)
	assert.Equal(t, 100.0, view.Project.Progress)
	for _, m := range view.Milestones {
		assert.Equal(t, "reimbursed", m.Status)
	}

	code, env = h.do("GET", "/api/v1/pool", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, 100.0, decode[struct {
		Total float64 `json:"total"`
	}](t, env.Data).Total)

	code, env = h.do("POST", "/api/v1/projects/"+id+"/distribute", map[string]float64{"total_revenue": 1000})
	require.Equal(t, 200, code, env.Error.Message)
	assert.Equal(t, "Revenue distributed successfully", env.Message)

	code, env = h.do("POST", "/api/v1/projects/"+id+"/distribute", map[string]float64{"total_revenue": 5000})
	require.Equal(t, 200, code)
	assert.Equal(t, "Revenue already distributed", env.Message)

	code, env = h.do("GET", "/api/v1/transactions/intent/pi_1", nil)
	require.Equal(t, 200, code)
	inv := decode[struct {
		Earnings    float64 `json:"earnings"`
		ROIPercent  float64 `json:"roi_percent"`
		Distributed bool    `json:"distributed"`
	}](t, env.Data)
	assert.Equal(t, 1000.0, inv.Earnings)
	assert.Equal(t, 100.0, inv.ROIPercent)
	assert.True(t, inv.Distributed)

	code, env = h.do("GET", "/api/v1/projects/"+id+"/transactions", nil)
	require.Equal(t, 200, code)
	assert.Len(t, decode[[]map[string]interface{}](t, env.Data), 1)

	code, env = h.do("GET", "/api/v1/projects/ongoing", nil)
	require.Equal(t, 200, code)
	assert.Empty(t, decode[[]map[string]interface{}](t, env.Data))
}

func TestErrorStatuses(t *testing.T) {
	h := newHarness(t)
	id := h.createProject()

	code, env := h.do("POST", "/api/v1/projects/"+id+"/milestones/0/reimburse", nil)
	assert.Equal(t, 422, code)
	assert.Equal(t, "error", env.Status)

	code, _ = h.do("POST", "/api/v1/projects/"+id+"/milestones/2/evidence", map[string]string{"evidence_url": "https://cdn.example/a.png"})
	assert.Equal(t, 409, code)

	code, _ = h.do("POST", "/api/v1/projects/"+id+"/milestones/9/reimburse", nil)
	assert.Equal(t, 400, code)

	code, _ = h.do("GET", "/api/v1/projects/not-a-uuid", nil)
	assert.Equal(t, 400, code)

	code, _ = h.do("GET", "/api/v1/projects/00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, 404, code)

	code, _ = h.do("POST", "/api/v1/projects/"+id+"/distribute", map[string]float64{"total_revenue": 10})
	assert.Equal(t, 422, code)

	code, _ = h.do("POST", "/api/v1/donations/initiate", map[string]interface{}{"project_id": id, "amount": -5})
	assert.Equal(t, 400, code)

	h.paymentsUp.Store(false)
	code, _ = h.do("POST", "/api/v1/donations/initiate", map[string]interface{}{"project_id": id, "amount": 5})
	assert.Equal(t, 502, code)
	code, env = h.do("GET", "/api/v1/pool", nil)
	require.Equal(t, 200, code)
	assert.Zero(t, decode[struct {
		Total float64 `json:"total"`
	}](t, env.Data).Total)
}

func TestReimburseWithEmptyPool(t *testing.T) {
	h := newHarness(t)
	id := h.createProject()

	code, _ := h.do("POST", "/api/v1/projects/"+id+"/milestones/0/evidence", map[string]string{"evidence_url": "https://cdn.example/a.png"})
	require.Equal(t, 200, code)
	code, env := h.do("POST", "/api/v1/projects/"+id+"/milestones/0/reimburse", nil)
	assert.Equal(t, 409, code)
	assert.Contains(t, env.Error.Message, "insufficient funds")

	code, env = h.do("GET", "/api/v1/projects/"+id+"/milestones", nil)
	require.Equal(t, 200, code)
	ms := decode[[]struct {
		Status string `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "completed", ms[0].Status)
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest("GET", "/health/json", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	code, _ := h.do("GET", "/reset?key=wrong", nil)
	assert.Equal(t, 403, code)
}

func TestPaymentProvider(t *testing.T) {
	assert.Nil(t, PaymentProvider(&config.Config{PaymentProvider: "carrier-pigeon"}))
	assert.NotNil(t, PaymentProvider(&config.Config{PaymentProvider: "stripe"}))
	assert.NotNil(t, PaymentProvider(&config.Config{}))
}
