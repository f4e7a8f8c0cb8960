package dto

// CategorySummary conteo por categoría (sin marcadores).
type CategorySummary struct {
	Categoria string `json:"categoria"`
	Productos int    `json:"productos"`
	Unidades  int    `json:"unidades"`
}

// TopProduct entrada del ranking de frecuentes.
type TopProduct struct {
	NombreProducto string `json:"nombre_producto"`
	Categoria      string `json:"categoria"`
	CantidadTotal  int    `json:"cantidad_total"`
}

// SummaryResponse resumen de la lista para el tablero.
type SummaryResponse struct {
	TotalProductos   int               `json:"total_productos"`
	TotalUnidades    int               `json:"total_unidades"`
	CompradosEsteMes int               `json:"comprados_este_mes"`
	Categorias       []CategorySummary `json:"categorias"`
	Top              []TopProduct      `json:"top"`
	DateLabel        string            `json:"date_label"`
}
