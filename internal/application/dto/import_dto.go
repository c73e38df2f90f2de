package dto

// ImportResponse resultado de importar una nota fiscal. InvoiceRef es la clave "cnpj-numero"
// con la que se admitió la nota; nil si la nota no traía CNPJ o número.
type ImportResponse struct {
	InvoiceRef *string                 `json:"nota"`
	Items      []ExtractedItemResponse `json:"itens"`
}
