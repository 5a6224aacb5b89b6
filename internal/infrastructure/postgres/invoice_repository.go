// Package postgres adapta la colección de facturas a PostgreSQL con
// semántica de almacén de documentos: una fila por factura, el cuerpo
// completo en JSONB con los nombres de campo históricos del cliente, y
// created_at como columna para resolver "el más reciente". El update
// mezcla el snapshot sobre el documento (doc || payload): los campos
// ausentes del payload quedan intactos, igual que el update del almacén
// original.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// Querier abstrae pool o tx de pgx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste el documento, asignando id y created_at en el servidor.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) (string, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	cp := *inv
	cp.CreatedAt = createdAt
	body, err := json.Marshal(dto.FromEntity(&cp))
	if err != nil {
		return "", fmt.Errorf("serializar documento: %w", err)
	}

	const query = `
		INSERT INTO invoices (id, invoice_no, subtotal, total, doc, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(ctx, query,
		id, inv.InvoiceNumber, inv.Subtotal, inv.Total, body, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert invoice: %w", err)
	}
	return id, nil
}

// GetByID obtiene el documento por id. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	const query = `SELECT id, doc, created_at FROM invoices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetMostRecent obtiene el documento con el created_at máximo. Con
// created_at empatado el orden lo decide el almacén. (nil, nil) si la
// colección está vacía.
func (r *InvoiceRepo) GetMostRecent(ctx context.Context) (*entity.Invoice, error) {
	const query = `SELECT id, doc, created_at FROM invoices ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.q.QueryRow(ctx, query))
}

// Update mezcla el snapshot sobre el documento almacenado; id inexistente
// se detecta por las filas afectadas, sin lectura previa. created_at y id
// nunca cambian.
func (r *InvoiceRepo) Update(ctx context.Context, id string, inv *entity.Invoice) error {
	// El snapshot no trae createdAt: se omite del payload y el merge lo deja intacto.
	cp := *inv
	cp.CreatedAt = time.Time{}
	body, err := json.Marshal(dto.FromEntity(&cp))
	if err != nil {
		return fmt.Errorf("serializar documento: %w", err)
	}

	// El snapshot completo sin tasa de cambio significa "sin tasa": la
	// clave se elimina también del documento almacenado, que nunca la
	// trae cuando la tasa es cero.
	query := `
		UPDATE invoices
		SET doc        = doc || $2::jsonb,
		    invoice_no = $3,
		    subtotal   = $4,
		    total      = $5
		WHERE id = $1`
	if inv.ExchangeRate.IsZero() {
		query = `
		UPDATE invoices
		SET doc        = (doc || $2::jsonb) - 'exchange_rate',
		    invoice_no = $3,
		    subtotal   = $4,
		    total      = $5
		WHERE id = $1`
	}
	tag, err := r.q.Exec(ctx, query, id, body, inv.InvoiceNumber, inv.Subtotal, inv.Total)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) scanOne(row pgx.Row) (*entity.Invoice, error) {
	var (
		id        string
		body      []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &body, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	var doc dto.InvoiceDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("deserializar documento: %w", err)
	}
	inv := doc.ToEntity()
	inv.ID = id
	inv.CreatedAt = createdAt
	return inv, nil
}
