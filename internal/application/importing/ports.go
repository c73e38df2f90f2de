package importing

import (
	"context"

	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// DocumentExtractor convierte los bytes de una nota fiscal en cabecera y líneas.
// Los fallos se devuelven como *domain.ExtractionError.
type DocumentExtractor interface {
	Extract(data []byte, existing catalog.CodeSet) (*entity.ExtractedInvoice, error)
}

// Digester calcula la huella del documento original que se guarda en el registro de la nota.
type Digester interface {
	Digest(data []byte) (string, error)
}

// DocumentArchive guarda el documento original. Devuelve la ruta del objeto guardado.
type DocumentArchive interface {
	Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}
