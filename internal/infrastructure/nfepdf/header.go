package nfepdf

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

const (
	emitterLabel     = "IDENTIFICAÇÃO DO EMITENTE"
	emitterScanLines = 4
	taxIDAfterName   = 500
	taxIDNearName    = 1000
	minFallbackYear  = 2020
)

var (
	reEmissionDate = regexp.MustCompile(`(?i)DATA\s+DA\s+EMISS[ÃA]O\s*(\d{2}/\d{2}/\d{4})`)
	reAnyDate      = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	reCNPJ         = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	reDanfeNumber  = regexp.MustCompile(`N[º°]\.?\s*:?\s*(\d{3}\.\d{3}\.\d{3})`)
	reInvoiceNo    = regexp.MustCompile(`N[º°]\.?\s*:?\s*(\d+)`)
	reSerieLabel   = regexp.MustCompile(`(?i)S[ÉE]RIE`)
	reEmitterBlock = regexp.MustCompile(`(?i)IDENTIFICA[ÇC][ÃA]O\s+DO\s+EMITENTE\s*([^\n]+(?:\n[^\n]+){0,2})`)
	reOnlyNumeric  = regexp.MustCompile(`^[\d\s\p{P}]+$`)
	reDocLabel     = regexp.MustCompile(`(?i)Documento\s+Auxiliar\s+da\s+Nota\s+Fiscal\s+Eletr[ôo]nica`)
	reDanfe        = regexp.MustCompile(`(?i)\bDANFE\b`)
	reStreetLine   = regexp.MustCompile(`(?i)^(RUA|R\.|AVENIDA|AV\.|RODOVIA|ROD\.|ESTRADA|ALAMEDA|TRAVESSA|PRAÇA)\s`)
	reStreet       = regexp.MustCompile(`(?i)\s*\b(RUA|AVENIDA|RODOVIA|ESTRADA|ALAMEDA|TRAVESSA)\s.*`)
	reTrailingCode = regexp.MustCompile(`\s*[\d\-]+$`)
)

// marcadores que cierran el bloque del emisor en el DANFE.
var emitterStopMarkers = []string{"DANFE", "CHAVE DE ACESSO", "0 - ENTRADA", "1 - SAÍDA", "NATUREZA"}

// extractHeader recupera la cabecera del DANFE desde el texto plano de la primera página.
func extractHeader(text string, now time.Time) entity.InvoiceHeader {
	name := emitterName(text)
	return entity.InvoiceHeader{
		EmissionDate:  emissionDate(text, now),
		SupplierName:  name,
		SupplierTaxID: supplierTaxID(text, name),
		InvoiceNumber: invoiceNumber(text),
	}
}

// emissionDate: etiqueta "DATA DA EMISSÃO"; si no, la primera fecha con año >= 2020; si no, hoy.
func emissionDate(text string, now time.Time) string {
	if m := reEmissionDate.FindStringSubmatch(text); m != nil {
		if iso, err := nfe.BRDateToISO(m[1]); err == nil {
			return iso
		}
	}
	for _, m := range reAnyDate.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[3])
		if year < minFallbackYear {
			continue
		}
		if iso, err := nfe.BRDateToISO(m[0]); err == nil {
			return iso
		}
	}
	return now.Format(nfe.LayoutISO)
}

// emitterName toma hasta 4 líneas bajo la etiqueta del emisor, corta en los marcadores del
// DANFE o en la primera línea de dirección y descarta líneas solo numéricas. Sin resultado,
// recurre a una búsqueda por regex.
func emitterName(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToUpper(line), emitterLabel) {
			continue
		}
		var parts []string
		end := min(i+1+emitterScanLines, len(lines))
	scan:
		for _, next := range lines[i+1 : end] {
			next = strings.TrimSpace(next)
			upper := strings.ToUpper(next)
			for _, marker := range emitterStopMarkers {
				if strings.Contains(upper, marker) {
					break scan
				}
			}
			if reStreetLine.MatchString(next) {
				break
			}
			if next != "" && !reOnlyNumeric.MatchString(next) {
				parts = append(parts, next)
			}
		}
		if name := cleanEmitterName(strings.Join(parts, " ")); name != "" {
			return name
		}
		break
	}
	if m := reEmitterBlock.FindStringSubmatch(text); m != nil {
		s := reDocLabel.ReplaceAllString(m[1], "")
		s = reDanfe.ReplaceAllString(s, "")
		return collapseSpaces(s)
	}
	return ""
}

func cleanEmitterName(s string) string {
	s = collapseSpaces(s)
	s = reDocLabel.ReplaceAllString(s, "")
	s = reDanfe.ReplaceAllString(s, "")
	s = reStreet.ReplaceAllString(s, "")
	s = reTrailingCode.ReplaceAllString(s, "")
	return collapseSpaces(s)
}

// supplierTaxID busca un CNPJ formateado: primero en los 500 caracteres desde el nombre del
// emisor, luego el más cercano (< 1000) al nombre y por último el primero del documento.
// Devuelve solo dígitos.
func supplierTaxID(text, name string) string {
	namePos := -1
	if name != "" {
		namePos = strings.Index(text, name)
	}
	if namePos >= 0 {
		start := namePos + len(name)
		end := min(namePos+taxIDAfterName, len(text))
		if start < end {
			if m := reCNPJ.FindString(text[start:end]); m != "" {
				return nfe.OnlyDigits(m)
			}
		}
	}
	matches := reCNPJ.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return ""
	}
	if namePos >= 0 {
		for _, loc := range matches {
			if abs(loc[0]-namePos) < taxIDNearName {
				return nfe.OnlyDigits(text[loc[0]:loc[1]])
			}
		}
	}
	return nfe.OnlyDigits(text[matches[0][0]:matches[0][1]])
}

// invoiceNumber número del DANFE ("Nº 000.001.234" → "1234"). El formato NNN.NNN.NNN tiene
// prioridad; un "Nº" con dígitos sueltos solo cuenta en la línea de la SÉRIE o después del
// marcador DANFE, y nunca tras una coma (número de dirección).
func invoiceNumber(text string) string {
	if m := reDanfeNumber.FindStringSubmatch(text); m != nil {
		return trimInvoiceNumber(m[1])
	}
	danfeAt := -1
	if loc := reDanfe.FindStringIndex(text); loc != nil {
		danfeAt = loc[0]
	}
	for _, loc := range reInvoiceNo.FindAllStringSubmatchIndex(text, -1) {
		if afterComma(text, loc[0]) {
			continue
		}
		if reSerieLabel.MatchString(lineAt(text, loc[0])) || (danfeAt >= 0 && loc[0] > danfeAt) {
			if n := trimInvoiceNumber(text[loc[2]:loc[3]]); n != "" {
				return n
			}
		}
	}
	return ""
}

func trimInvoiceNumber(raw string) string {
	return strings.TrimLeft(nfe.OnlyDigits(raw), "0")
}

// lineAt devuelve la línea que contiene la posición pos.
func lineAt(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : pos+end]
}

func afterComma(text string, pos int) bool {
	before := strings.TrimRight(text[:pos], " \t")
	return strings.HasSuffix(before, ",")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
