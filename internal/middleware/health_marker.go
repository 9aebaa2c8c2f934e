package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"creativeminds-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const errorLogSize = 50

// HealthMarker records request stats in Redis (skip /, /health*, favicon).
// Requests answered with a 5xx are appended to a capped error log. Errors are
// rendered here so the recorded status is the one the client sees.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		ctx := context.Background()
		b, _ := json.Marshal(map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})
		_ = rdb.Set(ctx, health.KeyLastReq, b, 0).Err()
		_ = rdb.Incr(ctx, health.KeyReqTotal).Err()

		err := c.Next()
		if err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		ms := time.Since(start).Milliseconds()
		_ = rdb.Incr(ctx, health.KeyResCount).Err()
		_ = rdb.IncrByFloat(ctx, health.KeyResTime, float64(ms)).Err()
		if status := c.Response().StatusCode(); status >= 500 {
			_ = rdb.Incr(ctx, health.KeyReqErrors).Err()
			entry := map[string]interface{}{
				"time":   time.Now(),
				"method": c.Method(),
				"path":   c.OriginalURL(),
				"status": status,
			}
			if err != nil {
				entry["message"] = err.Error()
			}
			eb, _ := json.Marshal(entry)
			_ = rdb.LPush(ctx, health.KeyErrorLog, eb).Err()
			_ = rdb.LTrim(ctx, health.KeyErrorLog, 0, errorLogSize-1).Err()
		}
		return nil
	}
}
