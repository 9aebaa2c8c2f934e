package milestones

import (
	mssvc "creativeminds-backend/internal/application/milestones"
	"creativeminds-backend/internal/interfaces/handlers/params"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mssvc.Service
}

type evidenceRequest struct {
	EvidenceURL string `json:"evidence_url"`
}

// AttachEvidence POST /api/v1/projects/:id/milestones/:index/evidence
func (h *Handlers) AttachEvidence(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	index, err := params.MilestoneIndex(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req evidenceRequest
	if err := c.BodyParser(&req); err != nil || req.EvidenceURL == "" {
		return response.Error(c, "evidence_url is required", fiber.StatusBadRequest, nil)
	}
	res, err := h.Service.AttachEvidence(c.UserContext(), id, index, req.EvidenceURL)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Evidence uploaded and verified", res, nil)
}

// Reimburse POST /api/v1/projects/:id/milestones/:index/reimburse
func (h *Handlers) Reimburse(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	index, err := params.MilestoneIndex(c)
	if err != nil {
		return response.FromError(c, err)
	}
	res, err := h.Service.Reimburse(c.UserContext(), id, index)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Milestone reimbursed", res, nil)
}
