package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/invoicing"
	"github.com/jhoicas/facturacion-api/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturas.
type InvoiceHandler struct {
	uc *invoicing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *invoicing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create guarda una factura nueva; el almacén asigna id y createdAt.
// POST /api/invoices
//
// Contrato histórico del cliente: en éxito {message, id}; en cualquier
// falla {error} sin diferenciación de status.
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var doc dto.InvoiceDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.JSON(dto.ErrorResponse{Error: "cuerpo de la petición inválido"})
	}

	// El snapshot entra por la sesión: recalcula por la ruta autoritativa
	// y valida los campos de envío antes de persistir.
	session := invoicing.SessionFromInvoice(doc.ToEntity())
	id, err := h.uc.Submit(c.Context(), session)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(dto.ErrorResponse{Error: "no se pudo guardar la factura"})
	}

	return c.JSON(dto.CreateInvoiceResponse{
		Message: "Document successfully written!",
		ID:      id,
	})
}

// GetByID devuelve los campos crudos del documento.
// GET /api/invoices?id=
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invoice ID is required"})
	}

	inv, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Invoice not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo obtener la factura"})
	}

	return c.JSON(dto.FromEntity(inv))
}

// LastNumber devuelve el invoice_no del documento más reciente.
// GET /api/invoices/last_number
func (h *InvoiceHandler) LastNumber(c *fiber.Ctx) error {
	n, err := h.uc.LastInvoiceNumber(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "No invoices found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo obtener el último número"})
	}

	return c.JSON(dto.LastInvoiceNumberResponse{LastInvoiceNumber: n})
}

// Update sobreescribe el documento id con el snapshot recibido.
// PUT /api/invoices?id=
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invoice ID is required"})
	}

	var doc dto.InvoiceDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo de la petición inválido"})
	}

	// Lectura previa: id inexistente es 404 antes de validar el snapshot,
	// y el documento almacenado es la base del update parcial.
	stored, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Invoice not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo actualizar la factura"})
	}

	// Solo los campos presentes en el payload sobreescriben el documento;
	// los ausentes quedan intactos. Los totales los deriva la sesión.
	doc.ApplyTo(stored)
	session := invoicing.SessionFromInvoice(stored)
	if _, err := h.uc.Submit(c.Context(), session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Invoice not found"})
		}
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo actualizar la factura"})
	}

	return c.JSON(dto.UpdateInvoiceResponse{
		Message: "Invoice successfully updated!",
		ID:      id,
	})
}

// DownloadPDF exporta el documento como PDF A4.
// GET /api/invoices/pdf?id=
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invoice ID is required"})
	}

	data, filename, err := h.uc.DownloadPDF(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Invoice not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo generar el PDF"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
