package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	traceIDHeader = "X-Trace-Id"
	traceIDLocal  = "trace_id"
)

// Tracing accepts a caller's X-Trace-Id when it is a UUID, otherwise mints
// one. The id is echoed back and bound to a request logger on the user
// context, so services can log through zerolog.Ctx(ctx).
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(traceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(traceIDHeader, traceID)

		reqLog := log.With().Str("trace_id", traceID).Logger()
		c.SetUserContext(reqLog.WithContext(c.UserContext()))
		return c.Next()
	}
}

// GetTraceID returns the request's trace id, or "" outside Tracing.
func GetTraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals(traceIDLocal).(string); ok {
		return id
	}
	return ""
}
