package dto

// CreateCategoryRequest registra una categoría sin productos.
type CreateCategoryRequest struct {
	Categoria string `json:"categoria" validate:"required,max=100"`
}

// CategoryListResponse categorías distintas presentes en la tabla.
type CategoryListResponse struct {
	Items []string `json:"items"`
}

// RemoveCategoryResponse cantidad de filas borradas en cascada.
type RemoveCategoryResponse struct {
	Categoria string `json:"categoria"`
	Deleted   int64  `json:"deleted"`
}
