package pool

import (
	poolsvc "creativeminds-backend/internal/application/pool"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *poolsvc.Service
}

// GetPool GET /api/v1/pool
func (h *Handlers) GetPool(c *fiber.Ctx) error {
	p, err := h.Service.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pool fetched successfully", p, nil)
}
