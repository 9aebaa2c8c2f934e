package donations

import (
	donsvc "creativeminds-backend/internal/application/donations"
	"creativeminds-backend/internal/interfaces/handlers/params"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *donsvc.Service
}

type initiateRequest struct {
	ProjectID string  `json:"project_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	UserID    *string `json:"user_id"`
}

// Initiate POST /api/v1/donations/initiate
func (h *Handlers) Initiate(c *fiber.Ctx) error {
	var req initiateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	pid, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return response.Error(c, "project_id must be a UUID", fiber.StatusBadRequest, nil)
	}
	user := req.UserID
	if user == nil {
		user = params.UserID(c)
	}
	res, err := h.Service.InitiateDonation(c.UserContext(), donsvc.Input{
		ProjectID: pid,
		Amount:    req.Amount,
		Currency:  req.Currency,
		UserID:    user,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Donation initiated", res, nil)
}
