// Package nfexml extrae las líneas de producto de una Nota Fiscal Eletrônica en XML (layout 4.00).
//
// Estructura relevante del documento:
//
//	nfeProc (opcional)
//	└── NFe
//	    └── infNFe
//	        ├── ide   (nNF, dhEmi | dEmi)
//	        ├── emit  (CNPJ | CPF, xNome, xFant)
//	        └── det*  └── prod (cProd, xProd, uCom, qCom, vUnCom)
package nfexml

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

// Namespace del portal fiscal de la NF-e.
const Namespace = "http://www.portalfiscal.inf.br/nfe"

// Valores por omisión de los campos ausentes en prod.
const (
	defaultName     = "Sem nome"
	defaultUnit     = "UN"
	defaultQuantity = "UN"
	defaultPrice    = "0"
)

// Extractor convierte bytes de NF-e XML en un entity.ExtractedInvoice.
type Extractor struct {
	codes *catalog.CodeGenerator
	now   func() time.Time
}

// NewExtractor construye el extractor con el generador de códigos indicado.
func NewExtractor(codes *catalog.CodeGenerator) *Extractor {
	return &Extractor{codes: codes, now: time.Now}
}

// WithClock fija el reloj usado para ExtractedAt (tests).
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract parsea el XML, localiza infNFe y devuelve cabecera y líneas. Los códigos faltantes
// o demasiado cortos se reemplazan por códigos nuevos que no colisionan con existing; los
// códigos emitidos se agregan a existing.
func (e *Extractor) Extract(data []byte, existing catalog.CodeSet) (out *entity.ExtractedInvoice, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = domain.NewExtractionError(domain.KindUnexpected, "error inesperado procesando el XML", fmt.Errorf("%v", r))
		}
	}()

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, domain.NewExtractionError(domain.KindParseFailure, "XML inválido o mal formado", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, domain.NewExtractionError(domain.KindParseFailure, "XML vacío", nil)
	}

	info, err := findInvoiceInfo(root)
	if err != nil {
		return nil, err
	}

	header := readHeader(info)
	extractedAt := e.now()
	if existing == nil {
		existing = catalog.NewCodeSet()
	}

	items := make([]entity.LineItem, 0)
	for _, det := range children(info, "det") {
		prod := child(det, "prod")
		if prod == nil {
			continue
		}
		items = append(items, entity.LineItem{
			Code:          e.codes.Ensure(text(prod, "cProd", ""), existing),
			Name:          text(prod, "xProd", defaultName),
			Unit:          text(prod, "uCom", defaultUnit),
			Quantity:      text(prod, "qCom", defaultQuantity),
			UnitPrice:     nfe.NonNegative(nfe.ParseDecimal(text(prod, "vUnCom", defaultPrice))),
			EmissionDate:  header.EmissionDate,
			SupplierName:  header.SupplierName,
			SupplierTaxID: header.SupplierTaxID,
			ExtractedAt:   extractedAt,
		})
	}
	// una nota sin det/prod es válida y devuelve la lista vacía
	return &entity.ExtractedInvoice{Header: header, Items: items}, nil
}

// findInvoiceInfo localiza infNFe bajo el primer elemento NFe del documento (raíz o descendiente).
// Un documento cuya raíz es directamente infNFe también se acepta.
func findInvoiceInfo(root *etree.Element) (*etree.Element, error) {
	nfeRoot := findFirst(root, "NFe")
	if nfeRoot == nil {
		if isInvoiceElement(root, "infNFe") {
			return root, nil
		}
		return nil, domain.NewExtractionError(domain.KindStructureInvalid, "elemento NFe no encontrado", nil)
	}
	info := child(nfeRoot, "infNFe")
	if info == nil {
		return nil, domain.NewExtractionError(domain.KindStructureInvalid, "bloque infNFe no encontrado", nil)
	}
	return info, nil
}

func readHeader(info *etree.Element) entity.InvoiceHeader {
	var h entity.InvoiceHeader
	if ide := child(info, "ide"); ide != nil {
		h.EmissionDate = text(ide, "dhEmi", "")
		if h.EmissionDate == "" {
			h.EmissionDate = text(ide, "dEmi", "")
		}
		number := text(ide, "nNF", "")
		if digits := strings.TrimLeft(nfe.OnlyDigits(number), "0"); digits != "" {
			number = digits
		}
		h.InvoiceNumber = number
	}
	if emit := child(info, "emit"); emit != nil {
		h.SupplierName = text(emit, "xNome", "")
		if h.SupplierName == "" {
			h.SupplierName = text(emit, "xFant", "")
		}
		taxID := text(emit, "CNPJ", "")
		if taxID == "" {
			taxID = text(emit, "CPF", "")
		}
		h.SupplierTaxID = nfe.OnlyDigits(taxID)
	}
	return h
}

// isInvoiceElement compara el nombre local y exige el namespace de la NF-e o ninguno.
func isInvoiceElement(el *etree.Element, local string) bool {
	if el.Tag != local {
		return false
	}
	ns := el.NamespaceURI()
	return ns == "" || ns == Namespace
}

// findFirst recorre el árbol en profundidad y devuelve el primer elemento con nombre local tag.
func findFirst(el *etree.Element, tag string) *etree.Element {
	if el.Tag == tag {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if isInvoiceElement(c, tag) {
			return c
		}
	}
	return nil
}

func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if isInvoiceElement(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// text devuelve el texto del hijo tag; def si el hijo no existe o está en blanco.
func text(el *etree.Element, tag, def string) string {
	c := child(el, tag)
	if c == nil {
		return def
	}
	if s := strings.TrimSpace(c.Text()); s != "" {
		return s
	}
	return def
}
