package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/invoicing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC *invoicing.InvoiceUseCase
}

// Router registra las rutas de la API. El id de factura viaja como query
// param (?id=) por compatibilidad con el cliente histórico.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices := api.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.GetByID)
	invoices.Put("/", invoiceHandler.Update)
	invoices.Get("/last_number", invoiceHandler.LastNumber)
	invoices.Get("/pdf", invoiceHandler.DownloadPDF)

	signatureHandler := NewSignatureHandler(deps.InvoiceUC)
	api.Post("/signatures", signatureHandler.Upload)
}
