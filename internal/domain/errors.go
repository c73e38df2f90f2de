package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInvoiceAlreadyImported = errors.New("nota fiscal ya importada")
)

// ExtractionKind clasifica los fallos de extracción de una nota fiscal.
type ExtractionKind string

const (
	KindParseFailure     ExtractionKind = "PARSE_FAILURE"
	KindStructureInvalid ExtractionKind = "STRUCTURE_INVALID"
	KindNoItemsFound     ExtractionKind = "NO_ITEMS_FOUND"
	KindAlreadyExists    ExtractionKind = "ALREADY_EXISTS"
	KindUnexpected       ExtractionKind = "UNEXPECTED"
)

// ExtractionError error tipado de la importación: Kind decide el código HTTP, Detail va al cliente.
type ExtractionError struct {
	Kind   ExtractionKind
	Detail string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError construye un ExtractionError con causa opcional.
func NewExtractionError(kind ExtractionKind, detail string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Detail: detail, Err: cause}
}

// KindOf devuelve el tipo de fallo de extracción, o "" si err no es un ExtractionError.
func KindOf(err error) ExtractionKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
