package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/invoicing"
	"github.com/jhoicas/facturacion-api/internal/domain"
)

// SignatureHandler maneja la subida de la imagen de firma. Es una
// operación asíncrona independiente de la edición: el cliente adjunta la
// URL resultante a la sesión cuando la subida termina.
type SignatureHandler struct {
	uc *invoicing.InvoiceUseCase
}

// NewSignatureHandler construye el handler.
func NewSignatureHandler(uc *invoicing.InvoiceUseCase) *SignatureHandler {
	return &SignatureHandler{uc: uc}
}

// Upload sube la imagen (multipart, campo "signature") y devuelve la URL.
// POST /api/signatures
func (h *SignatureHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("signature")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "archivo de firma requerido (campo signature)"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no se pudo leer el archivo de firma"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no se pudo leer el archivo de firma"})
	}

	url, err := h.uc.UploadSignature(c.Context(), fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo subir la firma"})
	}

	return c.JSON(dto.SignatureUploadResponse{URL: url})
}
