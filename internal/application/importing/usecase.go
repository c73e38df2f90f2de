// Package importing orquesta la carga de notas fiscales: extracción, admisión única por
// (CNPJ, número) y archivo del documento original.
package importing

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

const (
	contentTypeXML = "application/xml"
	contentTypePDF = "application/pdf"
	noTaxIDFolder  = "sem-cnpj"
)

// Document archivo recibido en la carga.
type Document struct {
	Filename string
	Data     []byte
}

// ImportUseCase extrae las líneas de una nota fiscal y registra la nota para rechazar recargas.
// Las líneas no se graban en el catálogo: el cliente las revisa y las confirma con el alta en lote.
type ImportUseCase struct {
	items    repository.CatalogItemRepository
	invoices repository.InvoiceRecordRepository
	xml      DocumentExtractor
	pdf      DocumentExtractor
	archive  DocumentArchive
	log      zerolog.Logger
	now      func() time.Time
}

// NewImportUseCase construye el caso de uso. archive puede ser nil (archivo deshabilitado).
func NewImportUseCase(
	items repository.CatalogItemRepository,
	invoices repository.InvoiceRecordRepository,
	xml, pdf DocumentExtractor,
	archive DocumentArchive,
	log zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		items:    items,
		invoices: invoices,
		xml:      xml,
		pdf:      pdf,
		archive:  archive,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ImportUseCase) WithClock(now func() time.Time) *ImportUseCase {
	uc.now = now
	return uc
}

// ImportXML procesa una NF-e en XML.
func (uc *ImportUseCase) ImportXML(ctx context.Context, doc Document) (*dto.ImportResponse, error) {
	return uc.importDocument(ctx, doc, uc.xml, entity.DocumentKindXML, contentTypeXML)
}

// ImportPDF procesa un DANFE en PDF.
func (uc *ImportUseCase) ImportPDF(ctx context.Context, doc Document) (*dto.ImportResponse, error) {
	return uc.importDocument(ctx, doc, uc.pdf, entity.DocumentKindPDF, contentTypePDF)
}

func (uc *ImportUseCase) importDocument(ctx context.Context, doc Document, ex DocumentExtractor, kind, contentType string) (*dto.ImportResponse, error) {
	existing := uc.existingCodes(ctx)

	inv, err := ex.Extract(doc.Data, existing)
	if err != nil {
		return nil, err
	}
	uc.checkTaxID(inv.Header.SupplierTaxID)

	rec := &entity.InvoiceRecord{
		TaxID:         inv.Header.SupplierTaxID,
		InvoiceNumber: inv.Header.InvoiceNumber,
		Filename:      doc.Filename,
		DocumentKind:  kind,
		ItemCount:     len(inv.Items),
		CreatedAt:     uc.now(),
	}
	if d, ok := ex.(Digester); ok {
		digest, err := d.Digest(doc.Data)
		if err != nil {
			uc.log.Warn().Err(err).Str("archivo", doc.Filename).Msg("no se pudo calcular la huella del documento")
		}
		rec.Digest = digest
	}

	admitted, err := uc.AdmitInvoice(ctx, inv.Header, rec)
	if err != nil {
		return nil, err
	}

	uc.archiveDocument(ctx, doc, rec, admitted, contentType)

	resp := &dto.ImportResponse{Items: toExtractedItems(inv.Items)}
	if admitted {
		ref := rec.ID
		resp.InvoiceRef = &ref
	}
	uc.log.Info().
		Str("archivo", doc.Filename).
		Str("tipo", kind).
		Int("itens", len(inv.Items)).
		Bool("admitida", admitted).
		Msg("nota fiscal procesada")
	return resp, nil
}

// AdmitInvoice registra la nota de forma atómica por su identidad (CNPJ, número).
// Devuelve un ExtractionError ALREADY_EXISTS si la nota ya se había importado. Cuando la cabecera
// no trae CNPJ o número no hay identidad: se registra una advertencia y admitted=false.
func (uc *ImportUseCase) AdmitInvoice(ctx context.Context, header entity.InvoiceHeader, rec *entity.InvoiceRecord) (admitted bool, err error) {
	identity, ok := header.Identity()
	if !ok {
		uc.log.Warn().
			Str("cnpj", header.SupplierTaxID).
			Str("numero", header.InvoiceNumber).
			Msg("nota sin CNPJ o número: se omite el control de duplicados")
		return false, nil
	}

	rec.ID = identity.Key()
	rec.TaxID = identity.TaxID
	rec.InvoiceNumber = identity.Number
	created, err := uc.invoices.CreateIfAbsent(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("registrar nota fiscal: %w", err)
	}
	if !created {
		return false, domain.NewExtractionError(domain.KindAlreadyExists,
			fmt.Sprintf("la nota fiscal %s del CNPJ %s ya fue importada", identity.Number, nfe.FormatCNPJ(identity.TaxID)),
			domain.ErrInvoiceAlreadyImported)
	}
	return true, nil
}

// checkTaxID advierte si un CNPJ de 14 dígitos no pasa el módulo 11. La nota se acepta igual.
func (uc *ImportUseCase) checkTaxID(taxID string) {
	if len(taxID) != 14 {
		return
	}
	if err := nfe.ValidateCNPJ(taxID); err != nil {
		uc.log.Warn().Err(err).Str("cnpj", taxID).Msg("CNPJ del emisor con dígito verificador inválido")
	}
}

// existingCodes carga los códigos del catálogo. Un fallo no bloquea la importación.
func (uc *ImportUseCase) existingCodes(ctx context.Context) catalog.CodeSet {
	codes, err := uc.items.ListCodes(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron leer los códigos existentes; se continúa con un conjunto vacío")
		return catalog.NewCodeSet()
	}
	return catalog.NewCodeSet(codes...)
}

// archiveDocument sube el original a notas/{cnpj}/{AAAA}/{MM}/{cnpj-numero}{ext}; sin admisión el
// nombre es un uuid. Los fallos solo se registran.
func (uc *ImportUseCase) archiveDocument(ctx context.Context, doc Document, rec *entity.InvoiceRecord, admitted bool, contentType string) {
	if uc.archive == nil {
		return
	}
	key := ""
	if admitted {
		key = rec.ID
	}
	object := ObjectName(rec.TaxID, key, doc.Filename, uc.now())
	stored, err := uc.archive.Put(ctx, object, doc.Data, contentType)
	if err != nil {
		uc.log.Error().Err(err).Str("objeto", object).Msg("no se pudo archivar el documento")
		return
	}
	if !admitted {
		return
	}
	if err := uc.invoices.SetStoragePath(ctx, rec.ID, stored); err != nil {
		uc.log.Error().Err(err).Str("nota", rec.ID).Msg("no se pudo guardar la ruta del documento")
		return
	}
	rec.StoragePath = stored
}

// ObjectName arma la ruta del objeto archivado. El nombre es la clave de la nota admitida
// (o un uuid si no hay clave) con la extensión del archivo subido.
func ObjectName(taxID, key, filename string, at time.Time) string {
	folder := taxID
	if folder == "" {
		folder = noTaxIDFolder
	}
	if key == "" {
		key = uuid.NewString()
	}
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if ext == "." {
		ext = ""
	}
	return fmt.Sprintf("notas/%s/%04d/%02d/%s%s", folder, at.Year(), int(at.Month()), key, ext)
}

func toExtractedItems(items []entity.LineItem) []dto.ExtractedItemResponse {
	out := make([]dto.ExtractedItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ExtractedItemResponse{
			Code:          it.Code,
			Name:          it.Name,
			Unit:          it.Unit,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice.InexactFloat64(),
			EmissionDate:  optional(it.EmissionDate),
			SupplierName:  optional(it.SupplierName),
			SupplierTaxID: optional(it.SupplierTaxID),
			Timestamp:     it.ExtractedAt,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
