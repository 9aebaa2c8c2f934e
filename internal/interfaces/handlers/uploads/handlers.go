package uploads

import (
	uploadsvc "creativeminds-backend/internal/application/uploads"
	"creativeminds-backend/internal/interfaces/handlers/params"
	"creativeminds-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *uploadsvc.Service
}

type uploadRequest struct {
	FileName string `json:"file_name"`
}

// EvidenceUploadURL POST /api/v1/projects/:id/milestones/:index/upload-url
func (h *Handlers) EvidenceUploadURL(c *fiber.Ctx) error {
	id, err := params.ProjectID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	index, err := params.MilestoneIndex(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", fiber.StatusBadRequest, nil)
	}
	res, err := h.Service.EvidenceUploadURL(c.UserContext(), id, index, req.FileName)
	if err != nil {
		log.Error().Err(err).Str("project_id", id.String()).Int("milestone", index).Msg("upload: failed to generate signed URL")
		return response.FromError(c, err)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}
