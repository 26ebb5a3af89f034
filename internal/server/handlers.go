package server

import (
	"github.com/gofiber/fiber/v2"

	"route-verifier/internal/models"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ValidateRequest is the body of POST /api/v1/validate
type ValidateRequest struct {
	Routes []models.Route `json:"routes" validate:"required,dive"`
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// handleHealthCheck handles GET /health
func (s *Server) handleHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleValidate handles POST /api/v1/validate
func (s *Server) handleValidate(c *fiber.Ctx) error {
	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body: "+err.Error())
	}
	if err := s.check.Struct(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	// the validator and the distance cache are not safe for concurrent use
	s.mu.Lock()
	result := s.validator.Validate(c.UserContext(), req.Routes)
	s.mu.Unlock()

	return c.JSON(result)
}
