package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
)

// AdvisorHandler expone el asesor IA de impacto ambiental.
type AdvisorHandler struct {
	uc       *usecase.AdvisorUseCase
	validate *validator.Validate
}

// NewAdvisorHandler construye el handler.
func NewAdvisorHandler(uc *usecase.AdvisorUseCase, validate *validator.Validate) *AdvisorHandler {
	return &AdvisorHandler{uc: uc, validate: validate}
}

// Suggest godoc
// @Summary      Sugerir impacto ambiental y alternativa sostenible con IA
// @Description  No persiste nada; el resultado se usa para completar el formulario de upsert.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EcoSuggestionRequest  true  "Producto"
// @Success      200   {object}  dto.EcoSuggestionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/products/suggest [post]
func (h *AdvisorHandler) Suggest(c *fiber.Ctx) error {
	var in dto.EcoSuggestionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	result, err := h.uc.Suggest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}
