package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys shared by the request marker middleware and the health report.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
	KeyLastReq   = "health:global:last_request"
	KeyErrorLog  = "health:global:error_log"
)

// StatKeys lists every key cleared by a stats reset.
var StatKeys = []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog}

// DBPinger is optional. If nil, the database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// Probe is an external HTTP dependency checked on every report, such as the
// payment provider or the evidence verifier.
type Probe struct {
	Name string
	URL  string
}

type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	Alloc    int `json:"alloc"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collector gathers health data from Redis, the database and external probes.
type Collector struct {
	Rdb     *redis.Client
	DB      DBPinger
	Probes  []Probe
	Timeout time.Duration
	Client  *http.Client
}

// Collect builds a report. Status is "ok" only when the database and Redis
// are both connected; external probes are informational.
func (c *Collector) Collect(ctx context.Context) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}

	dbStatus := "disconnected"
	var dbPing *int64
	if c.DB != nil {
		start := time.Now()
		if err := c.DB.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbPing = &ms
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPing}

	redisStatus := "disconnected"
	var redisPing *int64
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startMs := time.Now().UnixMilli()
	if c.Rdb != nil {
		start := time.Now()
		if err := c.Rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPing = &ms
			redisStatus = "connected"
			startMs = c.readTraffic(ctx, &stats, startMs)
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPing}
	result.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Memory:        MemoryInfo{Alloc: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	for _, p := range c.Probes {
		if p.URL == "" {
			continue
		}
		ping := c.httpPing(ctx, p.URL)
		status := "unreachable"
		if ping != nil {
			status = "reachable"
		}
		result.Dependencies[p.Name] = DepStatus{Status: status, PingMs: ping}
	}

	if dbStatus == "connected" && redisStatus == "connected" {
		result.Status = "ok"
	} else {
		result.Status = "issue"
	}
	return result
}

// DependencyNames returns the report's dependency names in stable order.
func (r CollectResult) DependencyNames() []string {
	names := make([]string, 0, len(r.Dependencies))
	for k := range r.Dependencies {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (c *Collector) readTraffic(ctx context.Context, stats *TrafficInfo, startMs int64) int64 {
	total, _ := c.Rdb.Get(ctx, KeyReqTotal).Result()
	failed, _ := c.Rdb.Get(ctx, KeyReqErrors).Result()
	timeSum, _ := c.Rdb.Get(ctx, KeyResTime).Result()
	count, _ := c.Rdb.Get(ctx, KeyResCount).Result()
	started, _ := c.Rdb.Get(ctx, KeyStartTime).Result()
	last, _ := c.Rdb.Get(ctx, KeyLastReq).Result()

	if started != "" {
		if t, err := strconv.ParseInt(started, 10, 64); err == nil {
			startMs = t
		}
	} else {
		c.Rdb.Set(ctx, KeyStartTime, startMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(total)
	stats.FailedCount, _ = strconv.Atoi(failed)
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	sum, _ := strconv.ParseFloat(timeSum, 64)
	n, _ := strconv.Atoi(count)
	if n > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(sum/float64(n), 'f', 2, 64)
	}
	if last != "" {
		var lr map[string]interface{}
		_ = json.Unmarshal([]byte(last), &lr)
		stats.LastRequest = lr
	}
	return startMs
}

func (c *Collector) httpPing(ctx context.Context, url string) *int64 {
	client := c.Client
	if client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	ms := time.Since(start).Milliseconds()
	return &ms
}
