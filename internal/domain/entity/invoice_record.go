package entity

import "time"

// InvoiceRecord marca una nota fiscal ya admitida. El ID es la clave "cnpj-numero".
type InvoiceRecord struct {
	ID            string
	TaxID         string
	InvoiceNumber string
	Filename      string
	DocumentKind  string // xml, pdf
	Digest        string // SHA-256 del XML canónico; vacío para PDF
	StoragePath   string // objeto en el archivo de documentos; vacío si no se archivó
	ItemCount     int
	CreatedAt     time.Time
}
