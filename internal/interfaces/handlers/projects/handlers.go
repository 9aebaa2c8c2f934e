package projects

import (
	"creativeminds-backend/internal/application/analytics"
	"creativeminds-backend/internal/application/milestones"
	projsvc "creativeminds-backend/internal/application/projects"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/interfaces/handlers/params"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service    *projsvc.Service
	Milestones *milestones.Service
	Analytics  analytics.Source
}

type createRequest struct {
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Overview        string    `json:"overview"`
	Timeline        []string  `json:"timeline"`
	Budget          []float64 `json:"budget"`
	Contributions   []string  `json:"contributions"`
	FundingRequired float64   `json:"funding_required"`
	CreatorID       *string   `json:"creator_id"`
}

type projectView struct {
	Project    *domain.Project    `json:"project"`
	Milestones []domain.Milestone `json:"milestones"`
}

// CreateProject POST /api/v1/projects/create-project
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	creator := req.CreatorID
	if creator == nil {
		creator = params.UserID(c)
	}
	p, err := h.Service.Create(c.UserContext(), projsvc.CreateInput{
		CreatorID:       creator,
		Title:           req.Title,
		Category:        req.Category,
		Overview:        req.Overview,
		Timeline:        req.Timeline,
		Budget:          req.Budget,
		Contributions:   req.Contributions,
		FundingRequired: req.FundingRequired,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Project created successfully", p, nil)
}

// ListOngoing GET /api/v1/projects/ongoing
func (h *Handlers) ListOngoing(c *fiber.Ctx) error {
	list, err := h.Service.ListOngoing(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Projects fetched successfully", list, fiber.Map{"count": len(list)})
}

// GetProject GET /api/v1/projects/:id
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	ms, err := h.Milestones.List(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Project fetched successfully", projectView{Project: p, Milestones: ms}, nil)
}

// GetMilestones GET /api/v1/projects/:id/milestones
func (h *Handlers) GetMilestones(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	ms, err := h.Milestones.List(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Milestones fetched successfully", ms, nil)
}

// GetAnalytics GET /api/v1/projects/:id/analytics
func (h *Handlers) GetAnalytics(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if _, err := h.Service.Get(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	if h.Analytics == nil {
		return response.Error(c, "Analytics is not configured", fiber.StatusBadGateway, nil)
	}
	stats, err := h.Analytics.ProjectStats(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Analytics fetched successfully", stats, nil)
}
