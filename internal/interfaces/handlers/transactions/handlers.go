package transactions

import (
	txsvc "creativeminds-backend/internal/application/transactions"
	"creativeminds-backend/internal/interfaces/handlers/params"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *txsvc.Service
}

// GetProjectTransactions GET /api/v1/projects/:id/transactions
func (h *Handlers) GetProjectTransactions(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	data, err := h.Service.ViewProjectTransactions(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Transactions fetched successfully", data, fiber.Map{"count": len(data)})
}

// GetInvestment GET /api/v1/transactions/intent/:intentId
func (h *Handlers) GetInvestment(c *fiber.Ctx) error {
	inv, err := h.Service.ViewInvestment(c.UserContext(), c.Params("intentId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Investment fetched successfully", inv, nil)
}
