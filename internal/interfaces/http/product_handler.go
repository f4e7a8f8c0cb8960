package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/internal/domain/ecolista"
)

// ProductHandler maneja las peticiones HTTP sobre filas de la lista.
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	validate *validator.Validate
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{uc: uc, validate: validate}
}

// List godoc
// @Summary      Vista de la lista (todo, por categoría, búsqueda o frecuentes)
// @Tags         products
// @Produce      json
// @Param        categoria  query  string  false  "Categoría exacta"
// @Param        q          query  string  false  "Texto a buscar en nombre o categoría"
// @Param        view       query  string  false  "frequent para el ranking por cantidad"
// @Success      200  {object}  dto.ViewResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	rows, err := h.uc.LoadAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	mode, arg := ecolista.ModeAll, ""
	switch {
	case c.Query("view") == string(ecolista.ModeFrequent):
		mode = ecolista.ModeFrequent
	case c.Query("categoria") != "":
		mode, arg = ecolista.ModeByCategory, c.Query("categoria")
	case c.Query("q") != "":
		mode, arg = ecolista.ModeByQuery, c.Query("q")
	}
	view := ecolista.Compute(rows, mode, arg)
	return c.JSON(dto.NewViewResponse(view, ecolista.ListCategories(rows)))
}

// Upsert godoc
// @Summary      Agregar producto (suma la cantidad si ya existe con la misma categoría)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertProductRequest  true  "Producto"
// @Success      200   {object}  dto.UpsertProductResponse
// @Success      201   {object}  dto.UpsertProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Upsert(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.UpsertProductResponse{
		Outcome: res.Outcome(),
		Product: dto.NewProductResponse(res.Product),
	})
}

// Update godoc
// @Summary      Guardar edición completa de un producto
// @Tags         products
// @Accept       json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos editables"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.SaveEdit(c.UserContext(), id, in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
