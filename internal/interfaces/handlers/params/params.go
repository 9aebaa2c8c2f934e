package params

import (
	"fmt"
	"strconv"

	"creativeminds-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProjectID parses the :id route parameter.
func ProjectID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: project id must be a UUID", domain.ErrValidation)
	}
	return id, nil
}

// MilestoneIndex parses the :index route parameter.
func MilestoneIndex(c *fiber.Ctx) (int, error) {
	i, err := strconv.Atoi(c.Params("index"))
	if err != nil || !domain.ValidMilestoneIndex(i) {
		return 0, fmt.Errorf("%w: milestone index must be between 0 and %d", domain.ErrValidation, domain.MilestoneCount-1)
	}
	return i, nil
}

// UserID returns the optional caller id from the X-User-Id header.
func UserID(c *fiber.Ctx) *string {
	v := c.Get("X-User-Id")
	if v == "" {
		return nil
	}
	return &v
}
