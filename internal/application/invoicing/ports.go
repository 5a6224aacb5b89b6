package invoicing

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// SignatureStore puerto del almacén de blobs para la imagen de firma.
// Put sube los bytes bajo path y devuelve la URL pública de descarga.
// El núcleo solo persiste esa URL; la subida es independiente de la
// edición y puede completarse en cualquier orden relativo a ella.
type SignatureStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// PDFRenderer puerto de exportación: rasteriza el documento factura en un
// PDF tamaño página. El núcleo aporta solo los datos renderizados, nunca
// la tecnología de render.
type PDFRenderer interface {
	Render(ctx context.Context, inv *entity.Invoice) ([]byte, error)
}
