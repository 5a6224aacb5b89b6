package invoicing

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// InvoiceUseCase es el gateway de recuperación/persistencia: marshalla la
// sesión de edición hacia y desde la colección de documentos. Cada
// operación es independiente y sin estado entre llamadas; no hay retry
// automático: un fallo de escritura se reporta y la sesión queda intacta
// para que el usuario reintente.
type InvoiceUseCase struct {
	repo       repository.InvoiceRepository
	signatures SignatureStore
	pdf        PDFRenderer
}

// NewInvoiceUseCase construye el caso de uso inyectando sus puertos.
func NewInvoiceUseCase(repo repository.InvoiceRepository, signatures SignatureStore, pdf PDFRenderer) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, signatures: signatures, pdf: pdf}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos de sesión
// ──────────────────────────────────────────────────────────────────────────────

// OpenSession abre una sesión vacía para crear una factura nueva.
func (uc *InvoiceUseCase) OpenSession() *Session {
	return NewSession()
}

// OpenSessionForEdit recupera el documento y lo hidrata en una sesión de
// edición. Retorna domain.ErrNotFound si el id no existe.
func (uc *InvoiceUseCase) OpenSessionForEdit(ctx context.Context, id string) (*Session, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("abrir sesión de edición: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return SessionFromInvoice(inv), nil
}

// Submit valida la sesión, recalcula por la ruta autoritativa y persiste
// el snapshot completo: crea si la sesión no tiene id, actualiza si lo
// tiene. Devuelve el id del documento.
func (uc *InvoiceUseCase) Submit(ctx context.Context, s *Session) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	s.Recompute()
	snap := s.Snapshot()
	if s.ID == "" {
		id, err := uc.Create(ctx, snap)
		if err != nil {
			return "", err
		}
		s.ID = id
		return id, nil
	}
	if err := uc.Update(ctx, s.ID, snap); err != nil {
		return "", err
	}
	return s.ID, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones de gateway (snapshot completo, sin estado)
// ──────────────────────────────────────────────────────────────────────────────

// Create persiste un documento nuevo; el almacén asigna id y createdAt.
func (uc *InvoiceUseCase) Create(ctx context.Context, inv *entity.Invoice) (string, error) {
	id, err := uc.repo.Create(ctx, inv)
	if err != nil {
		return "", fmt.Errorf("crear factura: %w", err)
	}
	return id, nil
}

// GetByID recupera el documento o domain.ErrNotFound si no existe.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// LastInvoiceNumber devuelve el invoice_no del documento más reciente
// (createdAt máximo), o domain.ErrNotFound con la colección vacía.
func (uc *InvoiceUseCase) LastInvoiceNumber(ctx context.Context) (int, error) {
	inv, err := uc.repo.GetMostRecent(ctx)
	if err != nil {
		return 0, fmt.Errorf("obtener última factura: %w", err)
	}
	if inv == nil {
		return 0, domain.ErrNotFound
	}
	return inv.InvoiceNumber, nil
}

// Update sobreescribe los campos mutables del documento id con el
// snapshot. Retorna domain.ErrNotFound si el id no existe; id y
// createdAt quedan intactos.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, inv *entity.Invoice) error {
	if err := uc.repo.Update(ctx, id, inv); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("actualizar factura: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores externos: firma y PDF
// ──────────────────────────────────────────────────────────────────────────────

// UploadSignature sube la imagen de firma al almacén de blobs y devuelve
// la URL de descarga que la sesión adjunta con AttachSignature.
func (uc *InvoiceUseCase) UploadSignature(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: archivo de firma vacío", domain.ErrValidation)
	}
	key := path.Join("images/signatures", uuid.New().String()+"-"+path.Base(filename))
	url, err := uc.signatures.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("subir firma: %w", err)
	}
	return url, nil
}

// DownloadPDF recupera el documento y genera su PDF. Devuelve los bytes
// y un nombre de archivo sugerido.
func (uc *InvoiceUseCase) DownloadPDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdf.Render(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf: %w", err)
	}
	filename := fmt.Sprintf("invoice-%d.pdf", inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
