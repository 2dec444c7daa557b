package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hrms-service/internal/routing"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Data       any                   `json:"data"`
	Errors     any                   `json:"errors"`
	Timestamp  string                `json:"timestamp"`
	Pagination *apperrors.Pagination `json:"pagination,omitempty"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func writeResult(c *fiber.Ctx, res *routing.Result) error {
	if res.Status == fiber.StatusNoContent {
		c.Status(fiber.StatusNoContent)
		return nil
	}
	status := res.Status
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(envelope{
		Success:    true,
		Message:    res.Message,
		Data:       res.Data,
		Timestamp:  timestamp(),
		Pagination: res.Pagination,
	})
}

func writeError(c *fiber.Ctx, status int, message string, errs any) error {
	return c.Status(status).JSON(envelope{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: timestamp(),
	})
}

// renderError writes err as an error envelope. Internal details are only shown when expose is set.
func renderError(c *fiber.Ctx, domainErr *apperrors.DomainError, expose bool) error {
	var errs any
	if len(domainErr.Details) > 0 {
		errs = domainErr.Details
	}
	if expose && domainErr.HTTPStatus >= fiber.StatusInternalServerError && domainErr.Err != nil {
		errs = fiber.Map{"detail": domainErr.Err.Error()}
	}
	return writeError(c, domainErr.HTTPStatus, domainErr.Message, errs)
}
