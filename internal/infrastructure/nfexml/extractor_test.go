package nfexml_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/infrastructure/nfexml"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var extractedAt = time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)

func newExtractor(codes ...int) *nfexml.Extractor {
	if len(codes) == 0 {
		codes = []int{424242}
	}
	i := 0
	intn := func(int) int {
		v := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return v
	}
	gen := catalog.NewCodeGeneratorWith(intn, func() time.Time { return extractedAt })
	return nfexml.NewExtractor(gen).WithClock(func() time.Time { return extractedAt })
}

const fullInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe35230311222333000181550010000012341000012345" versao="4.00">
      <ide>
        <nNF>1234</nNF>
        <dhEmi>2023-03-15T10:00:00-03:00</dhEmi>
      </ide>
      <emit>
        <CNPJ>11222333000181</CNPJ>
        <xNome>Ferragens Paulista LTDA</xNome>
      </emit>
      <det nItem="1">
        <prod>
          <cProd>ABC123</cProd>
          <xProd>Parafuso Sextavado 10mm</xProd>
          <uCom>CX</uCom>
          <qCom>5.0000</qCom>
          <vUnCom>12.5000000000</vUnCom>
        </prod>
      </det>
      <det nItem="2">
        <prod>
          <cProd>7</cProd>
          <xProd>Arruela Lisa</xProd>
          <uCom>UN</uCom>
          <qCom>100</qCom>
          <vUnCom>-1</vUnCom>
        </prod>
      </det>
    </infNFe>
  </NFe>
</nfeProc>`

// ──────────────────────────────────────────────────────────────────────────────
// Extract
// ──────────────────────────────────────────────────────────────────────────────

// Raíz infNFe sin cProd: una línea con código nuevo de 6 dígitos.
func TestExtract_RaizInfNFeSinCodigo(t *testing.T) {
	data := []byte(`<infNFe><det><prod><xProd>Parafuso</xProd><uCom>UN</uCom><vUnCom>1,50</vUnCom><qCom>10</qCom></prod></det></infNFe>`)
	existing := catalog.NewCodeSet()

	out, err := newExtractor(987654).Extract(data, existing)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	it := out.Items[0]
	assert.Equal(t, "Parafuso", it.Name)
	assert.Equal(t, "1.5", it.UnitPrice.String())
	assert.Equal(t, "10", it.Quantity)
	assert.Equal(t, "UN", it.Unit)
	assert.Equal(t, "987654", it.Code)
	assert.Len(t, it.Code, 6)
	assert.True(t, existing.Has("987654"), "el código emitido queda registrado en el conjunto")
	assert.Equal(t, extractedAt, it.ExtractedAt)
}

func TestExtract_SinBloqueInfNFe(t *testing.T) {
	data := []byte(`<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe"><NFe><outro/></NFe></nfeProc>`)
	_, err := newExtractor().Extract(data, catalog.NewCodeSet())
	require.Error(t, err)
	assert.Equal(t, domain.KindStructureInvalid, domain.KindOf(err))
}

func TestExtract_SinElementoNFe(t *testing.T) {
	data := []byte(`<documento><item>1</item></documento>`)
	_, err := newExtractor().Extract(data, catalog.NewCodeSet())
	assert.Equal(t, domain.KindStructureInvalid, domain.KindOf(err))
}

func TestExtract_InfNFeEnOtroNamespaceNoSeAcepta(t *testing.T) {
	data := []byte(`<NFe xmlns="http://www.portalfiscal.inf.br/nfe"><x:infNFe xmlns:x="urn:otro"/></NFe>`)
	_, err := newExtractor().Extract(data, catalog.NewCodeSet())
	assert.Equal(t, domain.KindStructureInvalid, domain.KindOf(err))
}

func TestExtract_XMLMalFormado(t *testing.T) {
	_, err := newExtractor().Extract([]byte(`<NFe><infNFe>`), catalog.NewCodeSet())
	require.Error(t, err)
	assert.Equal(t, domain.KindParseFailure, domain.KindOf(err))

	_, err = newExtractor().Extract([]byte(""), catalog.NewCodeSet())
	assert.Equal(t, domain.KindParseFailure, domain.KindOf(err))
}

func TestExtract_SinProductosDevuelveListaVacia(t *testing.T) {
	data := []byte(`<NFe xmlns="http://www.portalfiscal.inf.br/nfe"><infNFe><ide><nNF>1</nNF></ide></infNFe></NFe>`)
	inv, err := newExtractor().Extract(data, catalog.NewCodeSet())
	require.NoError(t, err)
	assert.Empty(t, inv.Items)
	assert.Equal(t, "1", inv.Header.InvoiceNumber)
}

func TestExtract_NotaCompletaConNamespace(t *testing.T) {
	existing := catalog.NewCodeSet("ABC999")
	out, err := newExtractor(111111).Extract([]byte(fullInvoice), existing)
	require.NoError(t, err)

	assert.Equal(t, "2023-03-15T10:00:00-03:00", out.Header.EmissionDate)
	assert.Equal(t, "Ferragens Paulista LTDA", out.Header.SupplierName)
	assert.Equal(t, "11222333000181", out.Header.SupplierTaxID)
	assert.Equal(t, "1234", out.Header.InvoiceNumber)

	require.Len(t, out.Items, 2)
	first, second := out.Items[0], out.Items[1]

	assert.Equal(t, "ABC123", first.Code, "un código válido se conserva")
	assert.Equal(t, "Parafuso Sextavado 10mm", first.Name)
	assert.Equal(t, "CX", first.Unit)
	assert.Equal(t, "5.0000", first.Quantity, "la cantidad se conserva tal como viene")
	assert.Equal(t, "12.5", first.UnitPrice.String())
	assert.Equal(t, "Ferragens Paulista LTDA", first.SupplierName)
	assert.Equal(t, "11222333000181", first.SupplierTaxID)
	assert.Equal(t, "2023-03-15T10:00:00-03:00", first.EmissionDate)

	assert.Equal(t, "111111", second.Code, "un código de un dígito se reemplaza")
	assert.True(t, second.UnitPrice.IsZero(), "los precios negativos se fuerzan a cero")

	identity, ok := out.Header.Identity()
	require.True(t, ok)
	assert.Equal(t, "11222333000181-1234", identity.Key())
}

func TestExtract_ValoresPorOmision(t *testing.T) {
	data := []byte(`<NFe><infNFe><det><prod><cProd>99999</cProd></prod></det></infNFe></NFe>`)
	out, err := newExtractor().Extract(data, catalog.NewCodeSet())
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	it := out.Items[0]
	assert.Equal(t, "Sem nome", it.Name)
	assert.Equal(t, "UN", it.Unit)
	assert.Equal(t, "UN", it.Quantity)
	assert.True(t, it.UnitPrice.IsZero())
	assert.Empty(t, it.SupplierTaxID)

	_, ok := out.Header.Identity()
	assert.False(t, ok, "sin CNPJ ni número no hay identidad")
}

func TestExtract_DetSinProdSeOmite(t *testing.T) {
	data := []byte(`<NFe><infNFe><det/><det><prod><cProd>55555</cProd><xProd>Cola</xProd></prod></det></infNFe></NFe>`)
	out, err := newExtractor().Extract(data, catalog.NewCodeSet())
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Cola", out.Items[0].Name)
}

func TestExtract_DEmiYCPF(t *testing.T) {
	data := []byte(`<NFe><infNFe><ide><nNF>000042</nNF><dEmi>2009-05-01</dEmi></ide><emit><CPF>123.456.789-09</CPF><xFant>Loja do Zé</xFant></emit><det><prod><cProd>12345</cProd><xProd>Fita</xProd></prod></det></infNFe></NFe>`)
	out, err := newExtractor().Extract(data, catalog.NewCodeSet())
	require.NoError(t, err)
	assert.Equal(t, "2009-05-01", out.Header.EmissionDate)
	assert.Equal(t, "12345678909", out.Header.SupplierTaxID)
	assert.Equal(t, "Loja do Zé", out.Header.SupplierName)
	assert.Equal(t, "42", out.Header.InvoiceNumber, "el número se normaliza sin ceros a la izquierda")
}

func TestExtract_ISO88591(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<NFe><infNFe><det><prod><cProd>12345</cProd><xProd>La\xe7o de Fita</xProd></prod></det></infNFe></NFe>")
	out, err := newExtractor().Extract(data, catalog.NewCodeSet())
	require.NoError(t, err)
	assert.Equal(t, "Laço de Fita", out.Items[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Digest
// ──────────────────────────────────────────────────────────────────────────────

func TestDigest_IgnoraDiferenciasDeFormato(t *testing.T) {
	a, err := nfexml.Digest([]byte(`<NFe versao='4.00'><vazio/></NFe>`))
	require.NoError(t, err)
	b, err := nfexml.Digest([]byte(`<NFe versao="4.00"><vazio></vazio></NFe>`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c, err := nfexml.Digest([]byte(`<NFe versao="4.01"><vazio/></NFe>`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDigest_XMLInvalido(t *testing.T) {
	_, err := nfexml.Digest([]byte(`<NFe>`))
	assert.Error(t, err)
}
