package health

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	healthsvc "creativeminds-backend/internal/application/health"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Collector      *healthsvc.Collector
	HealthAdminKey string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	rdb := h.Collector.Rdb
	if rdb == nil {
		return response.Error(c, "Redis is not configured", fiber.StatusServiceUnavailable, nil)
	}
	ctx := context.Background()
	if err := rdb.Del(ctx, healthsvc.StatKeys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if err := rdb.Set(ctx, healthsvc.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON returns the health report.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	r := h.Collector.Collect(c.UserContext())
	return c.JSON(fiber.Map{
		"service":      "creativeminds-api",
		"status":       r.Status,
		"runtime":      r.Runtime,
		"traffic":      r.Traffic,
		"dependencies": r.Dependencies,
	})
}

// Errors returns the last 50 logged 5xx responses.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Collector.Rdb == nil {
		return c.JSON([]interface{}{})
	}
	entries, err := h.Collector.Rdb.LRange(c.UserContext(), healthsvc.KeyErrorLog, 0, 49).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if json.Unmarshal([]byte(s), &m) == nil {
			out = append(out, m)
		}
	}
	return c.JSON(out)
}

// Dashboard renders the HTML status page.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	r := h.Collector.Collect(c.UserContext())
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(healthsvc.RenderDashboardHTML(r))
}
