package dto

import (
	"time"

	"github.com/jhoicas/ecolista-api/internal/domain/ecolista"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
)

// Resultados posibles de un upsert.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
)

// UpsertProductRequest candidato a insertar o fusionar por (nombre_producto, categoria).
// Cantidad omitida equivale a 1.
type UpsertProductRequest struct {
	NombreProducto       string `json:"nombre_producto" validate:"required,max=200"`
	Categoria            string `json:"categoria" validate:"required,max=100"`
	ImpactoAmbiental     string `json:"impacto_ambiental" validate:"required,max=1000"`
	SugerenciaSostenible string `json:"sugerencia_sostenible" validate:"required,max=1000"`
	Cantidad             *int   `json:"cantidad" validate:"omitempty,min=0,max=1000000"`
}

// UpdateProductRequest sobrescritura completa de los campos editables (frecuencia no se toca).
type UpdateProductRequest struct {
	NombreProducto       string `json:"nombre_producto" validate:"required,max=200"`
	Categoria            string `json:"categoria" validate:"required,max=100"`
	ImpactoAmbiental     string `json:"impacto_ambiental" validate:"max=1000"`
	SugerenciaSostenible string `json:"sugerencia_sostenible" validate:"max=1000"`
	Cantidad             int    `json:"cantidad" validate:"min=0,max=1000000"`
}

// ProductResponse fila con los nombres de campo del esquema remoto.
type ProductResponse struct {
	ID                   string    `json:"id"`
	NombreLista          string    `json:"nombre_lista"`
	NombreProducto       string    `json:"nombre_producto"`
	Categoria            string    `json:"categoria"`
	ImpactoAmbiental     string    `json:"impacto_ambiental"`
	SugerenciaSostenible string    `json:"sugerencia_sostenible"`
	Cantidad             int       `json:"cantidad"`
	Frecuencia           int       `json:"frecuencia"`
	FechaCompra          time.Time `json:"fecha_compra"`
	CantidadTotal        *int      `json:"cantidad_total,omitempty"`
}

// UpsertProductResponse resultado del upsert: "created" o "updated".
type UpsertProductResponse struct {
	Outcome string          `json:"outcome"`
	Product ProductResponse `json:"product"`
}

// ViewResponse vista derivada que muestra la interfaz.
type ViewResponse struct {
	Mode       string            `json:"mode"`
	Arg        string            `json:"arg,omitempty"`
	Items      []ProductResponse `json:"items"`
	Categories []string          `json:"categories"`
	Loading    bool              `json:"loading"`
}

// NewProductResponse convierte una fila de dominio.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                   p.ID,
		NombreLista:          p.NombreLista,
		NombreProducto:       p.NombreProducto,
		Categoria:            p.Categoria,
		ImpactoAmbiental:     p.ImpactoAmbiental,
		SugerenciaSostenible: p.SugerenciaSostenible,
		Cantidad:             p.Cantidad,
		Frecuencia:           p.Frecuencia,
		FechaCompra:          p.FechaCompra,
	}
}

// NewViewResponse convierte una vista calculada. En la vista de frecuentes cada item lleva cantidad_total.
func NewViewResponse(v ecolista.View, categories []string) ViewResponse {
	items := make([]ProductResponse, 0, v.Len())
	if v.Mode == ecolista.ModeFrequent {
		for i := range v.Aggregated {
			item := NewProductResponse(&v.Aggregated[i].Product)
			total := v.Aggregated[i].CantidadTotal
			item.CantidadTotal = &total
			items = append(items, item)
		}
	} else {
		for _, p := range v.Products {
			items = append(items, NewProductResponse(p))
		}
	}
	if categories == nil {
		categories = []string{}
	}
	return ViewResponse{
		Mode:       string(v.Mode),
		Arg:        v.Arg,
		Items:      items,
		Categories: categories,
	}
}
