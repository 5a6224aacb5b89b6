package dto

// ErrorResponse cuerpo de error HTTP. El contrato del cliente espera un
// único campo "error", sin código diferenciado.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateInvoiceResponse respuesta de POST /api/invoices.
type CreateInvoiceResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// UpdateInvoiceResponse respuesta de PUT /api/invoices.
type UpdateInvoiceResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// LastInvoiceNumberResponse respuesta de GET /api/invoices/last_number.
type LastInvoiceNumberResponse struct {
	LastInvoiceNumber int `json:"lastInvoiceNumber"`
}

// SignatureUploadResponse respuesta de POST /api/signatures.
type SignatureUploadResponse struct {
	URL string `json:"url"`
}
