package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolista-api/internal/application/analytics"
)

// StatsHandler expone el resumen de la lista.
type StatsHandler struct {
	uc *analytics.SummaryUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *analytics.SummaryUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de la lista
// @Description  Totales, desglose por categoría, compras del mes y top de frecuentes.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
