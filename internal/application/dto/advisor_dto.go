package dto

// EcoSuggestionRequest producto para el que se pide una sugerencia al asesor.
type EcoSuggestionRequest struct {
	NombreProducto string `json:"nombre_producto" validate:"required,max=200"`
	Categoria      string `json:"categoria" validate:"max=100"`
}

// EcoSuggestionResponse texto sugerido para los campos impacto_ambiental y sugerencia_sostenible.
// El cliente decide si lo usa en el upsert; nada se persiste aquí.
type EcoSuggestionResponse struct {
	ImpactoAmbiental     string `json:"impacto_ambiental"`
	SugerenciaSostenible string `json:"sugerencia_sostenible"`
	Proveedor            string `json:"proveedor"`
}
