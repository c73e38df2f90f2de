package dto

import (
	"bytes"
	"encoding/json"
)

// Límites de paginación del catálogo.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit aplica el valor por defecto y el máximo al parámetro limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse respuesta mínima de operaciones sin cuerpo.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// LooseNumber acepta un número JSON o un string ("12,50", "3.5"). Se guarda el texto tal cual;
// el caso de uso decide cómo interpretarlo.
type LooseNumber string

// UnmarshalJSON implementa json.Unmarshaler.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = LooseNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = LooseNumber(num.String())
	return nil
}

// String devuelve el texto recibido.
func (n LooseNumber) String() string { return string(n) }
