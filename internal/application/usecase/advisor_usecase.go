package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/ports"
	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// DefaultAdvisorTimeout tope por llamada al modelo.
const DefaultAdvisorTimeout = 10 * time.Second

// AdvisorUseCase pide al asesor IA un texto de impacto y sugerencia para un producto.
// No escribe en el almacén; el resultado alimenta un upsert posterior del cliente.
type AdvisorUseCase struct {
	advisor ports.EcoAdvisor
	timeout time.Duration
	log     *logger.Logger
}

// NewAdvisorUseCase advisor puede ser nil: las llamadas responden domain.ErrUnavailable.
func NewAdvisorUseCase(advisor ports.EcoAdvisor, timeout time.Duration, log *logger.Logger) *AdvisorUseCase {
	if timeout <= 0 {
		timeout = DefaultAdvisorTimeout
	}
	return &AdvisorUseCase{advisor: advisor, timeout: timeout, log: log}
}

// Suggest valida la entrada y delega en el adaptador con timeout propio.
func (uc *AdvisorUseCase) Suggest(ctx context.Context, in dto.EcoSuggestionRequest) (*dto.EcoSuggestionResponse, error) {
	nombre := strings.TrimSpace(in.NombreProducto)
	if nombre == "" {
		return nil, invalid("nombre_producto es obligatorio")
	}
	if uc.advisor == nil {
		return nil, fmt.Errorf("%w: asesor IA no configurado", domain.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	result, err := uc.advisor.SuggestEcoInfo(ctx, nombre, strings.TrimSpace(in.Categoria))
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		uc.log.Warn().Err(err).Str("producto", nombre).Msg("sugerencia IA fallida")
		return nil, fmt.Errorf("%w: sugerencia IA: %w", domain.ErrRemote, err)
	}
	return result, nil
}
