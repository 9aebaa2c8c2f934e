package response

import (
	"errors"

	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/logger"

	"github.com/gofiber/fiber/v2"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusOK, message, data, metadata)
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusCreated, message, data, metadata)
}

func send(c *fiber.Ctx, code int, message string, data, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(code).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAlreadyReimbursed),
		errors.Is(err, domain.ErrMilestoneNotActive):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNoContributions),
		errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, domain.ErrVerificationRejected),
		errors.Is(err, domain.ErrProjectNotCompleted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrExternalService):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// FromError writes err in the standard error format. Unclassified and
// upstream errors are logged and reported to the client without their
// internal message.
func FromError(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	switch code {
	case fiber.StatusInternalServerError:
		logger.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return Error(c, "Internal Server Error", code, nil)
	case fiber.StatusBadGateway:
		logger.Ctx(c.UserContext()).Warn().Err(err).Str("path", c.Path()).Msg("external service failed")
		return Error(c, "External service unavailable", code, nil)
	}
	return Error(c, err.Error(), code, nil)
}
