package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Insumos-api/internal/application/catalog"
	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/domain"
)

// CatalogHandler maneja el catálogo de insumos (protegido).
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List godoc
// @Summary      Listar o buscar insumos
// @Description  Con q busca por nombre o código en los registros recientes; sin q pagina por cursor.
// @Tags         itens
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "texto a buscar"
// @Param        limit   query  int     false  "máximo de resultados (1-100, por defecto 20)"
// @Param        cursor  query  string  false  "next_cursor de la página anterior"
// @Success      200  {object}  dto.ItemPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/itens [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var in dto.ListItemsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta en lote de insumos
// @Description  Si algún insumo ya existe (nombre, unidad, precio, fecha y código) no se graba nada.
// @Tags         itens
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemsRequest  true  "insumos"
// @Success      201  {object}  dto.CreateItemsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ConflictsResponse
// @Router       /api/itens [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateBatch(c.UserContext(), in)
	if err != nil {
		if conflicts, ok := catalog.IsConflicts(err); ok {
			return c.Status(fiber.StatusConflict).JSON(dto.ConflictsResponse{Success: false, Conflicts: conflicts})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Patch godoc
// @Summary      Editar insumo
// @Tags         itens
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del insumo"
// @Param        body  body  dto.PatchItemRequest  true  "campos a modificar"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/itens/{id} [patch]
func (h *CatalogHandler) Patch(c *fiber.Ctx) error {
	var in dto.PatchItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Patch(c.UserContext(), c.Params("id"), in); err != nil {
		return itemError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Delete godoc
// @Summary      Eliminar insumo (admin)
// @Tags         itens
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/itens/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return itemError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func itemError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
