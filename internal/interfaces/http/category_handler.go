package http

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
)

// CategoryHandler maneja el registro de categorías.
type CategoryHandler struct {
	uc       *usecase.CategoryUseCase
	validate *validator.Validate
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, validate *validator.Validate) *CategoryHandler {
	return &CategoryHandler{uc: uc, validate: validate}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CategoryListResponse{Items: items})
}

// Create godoc
// @Summary      Agregar categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Categoría"
// @Success      201   {object}  dto.CreateCategoryRequest
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	name, err := h.uc.Add(c.UserContext(), in.Categoria)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateCategoryRequest{Categoria: name})
}

// Delete godoc
// @Summary      Eliminar categoría y, en cascada, todos sus productos
// @Tags         categories
// @Produce      json
// @Param        name  path  string  true  "Categoría"
// @Success      200   {object}  dto.RemoveCategoryResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/categories/{name} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return invalidBody(c)
	}
	n, err := h.uc.Remove(c.UserContext(), name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RemoveCategoryResponse{Categoria: name, Deleted: n})
}
