package health

import (
	"fmt"
	"html"
	"strings"
)

// RenderDashboardHTML returns the status page served at GET /.
func RenderDashboardHTML(r CollectResult) string {
	headline := "All Systems Operational"
	if r.Status != "ok" {
		headline = "System Issues Detected"
	}

	lastMethod, lastPath := "-", "-"
	if m, ok := r.Traffic.LastRequest.(map[string]interface{}); ok {
		if v, ok := m["method"].(string); ok {
			lastMethod = v
		}
		if v, ok := m["path"].(string); ok {
			lastPath = v
		}
	}

	var deps strings.Builder
	for _, name := range r.DependencyNames() {
		d := r.Dependencies[name]
		class := "err"
		if d.Status == "connected" || d.Status == "reachable" {
			class = "ok"
		}
		ping := "?"
		if d.PingMs != nil {
			ping = fmt.Sprint(*d.PingMs)
		}
		fmt.Fprintf(&deps, `<div class="row"><span>%s</span><span class="pill %s">%s · %s ms</span></div>`,
			html.EscapeString(name), class, html.EscapeString(d.Status), ping)
	}

	return `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>CreativeMinds · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta http-equiv="refresh" content="30">
  <style>
    body { background: #F8F9FA; color: #1E293B; font-family: sans-serif; margin: 0; display: flex; justify-content: center; padding: 40px 20px; }
    .card { width: 100%; max-width: 900px; background: #fff; border-radius: 24px; box-shadow: 0 20px 60px -20px rgba(0,0,0,0.15); }
    h1 { text-align: center; font-size: 40px; letter-spacing: -2px; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
    .col { padding: 32px; border-right: 1px solid #f1f5f9; }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94a3b8; margin-bottom: 16px; }
    .big { font-size: 36px; font-weight: 900; margin-bottom: 8px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-size: 14px; font-weight: 700; }
    .pill { padding: 3px 10px; border-radius: 8px; font-size: 11px; }
    .ok { background: #ecfdf5; color: #047857; }
    .err { background: #fef2f2; color: #dc2626; }
    .footer { padding: 16px 32px; font-family: monospace; border-top: 1px solid #f1f5f9; }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <div>
    <h1>` + headline + `</h1>
    <div class="card">
      <div class="grid">
        <div class="col">
          <div class="label">Traffic</div>
          <div class="big">` + fmt.Sprint(r.Traffic.TotalRequests) + `</div>
          <div class="row"><span>Successful</span><span>` + fmt.Sprint(r.Traffic.SuccessCount) + `</span></div>
          <div class="row"><span>Failed</span><span>` + fmt.Sprint(r.Traffic.FailedCount) + `</span></div>
          <div class="row"><span>Success Rate</span><span>` + r.Traffic.SuccessRate + `%</span></div>
          <div class="row"><span>Avg Latency</span><span>` + fmt.Sprint(r.Traffic.AvgResponseTime) + `ms</span></div>
        </div>
        <div class="col">
          <div class="label">Runtime</div>
          <div class="big">` + fmt.Sprint(r.Runtime.UptimeSeconds) + `s</div>
          <div class="row"><span>Heap Used</span><span>` + fmt.Sprint(r.Runtime.Memory.HeapUsed) + ` MB</span></div>
          <div class="row"><span>Goroutines</span><span>` + fmt.Sprint(r.Runtime.Goroutines) + `</span></div>
          <div class="row"><span>Go</span><span>` + r.Runtime.GoVersion + `</span></div>
        </div>
        <div class="col">
          <div class="label">Connectivity</div>
          ` + deps.String() + `
        </div>
      </div>
      <div class="footer">LAST INBOUND ` + html.EscapeString(lastMethod) + ` ` + html.EscapeString(lastPath) + `</div>
    </div>
  </div>
</body>
</html>`
}
