package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de una nota fiscal importada.
const (
	DocumentKindXML = "xml"
	DocumentKindPDF = "pdf"
)

// LineItem es una línea de producto extraída de una nota fiscal (NF-e XML o DANFE PDF).
// Quantity se conserva tal como viene en el documento; UnitPrice nunca es negativo.
type LineItem struct {
	Code          string
	Name          string
	Unit          string
	Quantity      string
	UnitPrice     decimal.Decimal
	EmissionDate  string // AAAA-MM-DD o fecha/hora ISO del XML; vacío si se desconoce
	SupplierName  string // vacío = desconocido
	SupplierTaxID string // solo dígitos; vacío = desconocido
	ExtractedAt   time.Time
}

// InvoiceHeader datos de cabecera de la nota fiscal.
type InvoiceHeader struct {
	EmissionDate  string
	SupplierName  string
	SupplierTaxID string
	InvoiceNumber string
}

// Identity devuelve la identidad (CNPJ emisor + número) si ambos datos se conocen.
func (h InvoiceHeader) Identity() (InvoiceIdentity, bool) {
	if h.SupplierTaxID == "" || h.InvoiceNumber == "" {
		return InvoiceIdentity{}, false
	}
	return InvoiceIdentity{TaxID: h.SupplierTaxID, Number: h.InvoiceNumber}, true
}

// ExtractedInvoice resultado de una extracción: cabecera más líneas.
type ExtractedInvoice struct {
	Header InvoiceHeader
	Items  []LineItem
}

// InvoiceIdentity identifica una nota fiscal de forma única entre cargas.
type InvoiceIdentity struct {
	TaxID  string
	Number string
}

// Key devuelve la clave de deduplicación "cnpj-numero".
func (i InvoiceIdentity) Key() string {
	return i.TaxID + "-" + i.Number
}
