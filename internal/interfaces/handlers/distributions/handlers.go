package distributions

import (
	distsvc "creativeminds-backend/internal/application/distributions"
	"creativeminds-backend/internal/interfaces/handlers/params"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *distsvc.Service
}

type distributeRequest struct {
	TotalRevenue float64 `json:"total_revenue"`
}

// Distribute POST /api/v1/projects/:id/distribute
// An empty body distributes the analytics revenue estimate.
func (h *Handlers) Distribute(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req distributeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
		}
	}
	res, err := h.Service.Distribute(c.UserContext(), id, req.TotalRevenue)
	if err != nil {
		return response.FromError(c, err)
	}
	if res.AlreadyDistributed {
		return response.Success(c, "Revenue already distributed", res, nil)
	}
	return response.Success(c, "Revenue distributed successfully", res, nil)
}
