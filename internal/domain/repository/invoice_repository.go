package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia del documento factura.
// Cada operación es independiente y sin estado entre llamadas; no hay
// delete ni listados (fuera de alcance por diseño).
type InvoiceRepository interface {
	// Create persiste el documento, asigna id y createdAt, y devuelve el id.
	Create(ctx context.Context, inv *entity.Invoice) (string, error)
	// GetByID devuelve (nil, nil) si no existe documento con ese id.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetMostRecent devuelve el documento con el createdAt máximo, o
	// (nil, nil) si la colección está vacía. Empate de createdAt: orden
	// definido por el almacén.
	GetMostRecent(ctx context.Context) (*entity.Invoice, error)
	// Update sobreescribe los campos mutables del documento con el
	// snapshot recibido; retorna domain.ErrNotFound si el id no existe.
	// id y createdAt nunca se tocan.
	Update(ctx context.Context, id string, inv *entity.Invoice) error
}
