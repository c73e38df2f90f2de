package http

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/application/importing"
)

// HeaderInvoiceRef devuelve la clave "cnpj-numero" con la que se admitió la nota.
const HeaderInvoiceRef = "X-Invoice-Ref"

type importFunc func(ctx context.Context, doc importing.Document) (*dto.ImportResponse, error)

// ImportHandler recibe notas fiscales por multipart/form-data.
type ImportHandler struct {
	uc *importing.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *importing.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// ImportXML godoc
// @Summary      Importar NF-e (XML)
// @Description  Extrae las líneas de producto. La misma nota (CNPJ + número) solo se admite una vez.
// @Tags         nfe
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        xmlFile  formData  file  true  "NF-e en XML"
// @Success      200  {array}   dto.ExtractedItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/nfe/xml [post]
func (h *ImportHandler) ImportXML(c *fiber.Ctx) error {
	return h.handle(c, "xmlFile", ".xml", h.uc.ImportXML)
}

// ImportPDF godoc
// @Summary      Importar DANFE (PDF)
// @Tags         nfe
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        pdfFile  formData  file  true  "DANFE en PDF"
// @Success      200  {array}   dto.ExtractedItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/nfe/pdf [post]
func (h *ImportHandler) ImportPDF(c *fiber.Ctx) error {
	return h.handle(c, "pdfFile", ".pdf", h.uc.ImportPDF)
}

func (h *ImportHandler) handle(c *fiber.Ctx, field, ext string, run importFunc) error {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_FILE", Message: "ningún archivo enviado en el campo " + field})
	}
	if strings.TrimSpace(fh.Filename) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_FILENAME", Message: "nombre de archivo vacío"})
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ext) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FORMAT", Message: "formato de archivo inválido, se espera " + ext})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UNEXPECTED", Message: "error interno: " + err.Error()})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UNEXPECTED", Message: "error interno: " + err.Error()})
	}

	out, err := run(c.UserContext(), importing.Document{Filename: fh.Filename, Data: data})
	if err != nil {
		return extractionError(c, err)
	}
	if out.InvoiceRef != nil {
		c.Set(HeaderInvoiceRef, *out.InvoiceRef)
	}
	return c.JSON(out.Items)
}
