package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
)

// Límite de las columnas impacto_ambiental y sugerencia_sostenible.
const maxCampo = 1000

const systemPrompt = `Eres un asesor de consumo sostenible para una lista de compras ecológica.
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código` + " ```json" + `) con esta estructura exacta:
{
  "impacto_ambiental": "<impacto ambiental principal del producto, máximo 200 caracteres>",
  "sugerencia_sostenible": "<alternativa o hábito más sostenible y concreto, máximo 200 caracteres>"
}

Reglas:
- Responde en español.
- Si el producto es ambiguo, usa la categoría como contexto.
- No incluyas texto fuera del JSON. Solo el objeto JSON.`

// ecoPayload es el JSON que esperamos recibir del modelo.
type ecoPayload struct {
	ImpactoAmbiental     string `json:"impacto_ambiental"`
	SugerenciaSostenible string `json:"sugerencia_sostenible"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

func userPrompt(nombreProducto, categoria string) string {
	if categoria == "" {
		return fmt.Sprintf("Producto: %s", nombreProducto)
	}
	return fmt.Sprintf("Producto: %s\nCategoría: %s", nombreProducto, categoria)
}

// parseSuggestion convierte el texto libre del modelo en la respuesta del asesor.
func parseSuggestion(rawText, proveedor string) (*dto.EcoSuggestionResponse, error) {
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}
	var p ecoPayload
	if err := json.Unmarshal([]byte(cleanJSON), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de sugerencia: %w (JSON extraído: %s)", err, cleanJSON)
	}
	impacto := truncate(strings.TrimSpace(p.ImpactoAmbiental), maxCampo)
	sugerencia := truncate(strings.TrimSpace(p.SugerenciaSostenible), maxCampo)
	if impacto == "" || sugerencia == "" {
		return nil, fmt.Errorf("AI: el modelo devolvió campos vacíos")
	}
	return &dto.EcoSuggestionResponse{
		ImpactoAmbiental:     impacto,
		SugerenciaSostenible: sugerencia,
		Proveedor:            proveedor,
	}, nil
}

// extractJSON extrae el primer objeto JSON de un texto libre.
// Primero quita bloques markdown (```json … ```); si no queda un objeto, usa la regex.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// truncate corta por runas para no partir caracteres acentuados.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
