package nfexml

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// Digest calcula el SHA-256 (hex) del XML canónico (C14N). Dos archivos que solo difieren en
// formato o en el orden de los atributos producen el mismo digest.
func Digest(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	dec.CharsetReader = charsetReader
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("nfexml: canonicalizar XML: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Digest expone Digest como método para que el extractor cumpla el puerto de huella del caso de uso.
func (e *Extractor) Digest(data []byte) (string, error) {
	return Digest(data)
}
