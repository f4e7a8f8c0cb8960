package ports

import (
	"context"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
)

// EcoAdvisor puerto de salida hacia un modelo de lenguaje que propone el impacto ambiental
// y una alternativa sostenible para un producto. Adaptadores: Anthropic, Gemini, fakes de test.
type EcoAdvisor interface {
	// SuggestEcoInfo el contexto debe llevar timeout; las llamadas son externas.
	SuggestEcoInfo(ctx context.Context, nombreProducto, categoria string) (*dto.EcoSuggestionResponse, error)
}
