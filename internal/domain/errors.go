package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrInvalidArgument: parámetro de cálculo fuera de dominio (ej. page_size <= 0).
	ErrInvalidArgument = errors.New("argumento inválido")
	// ErrValidation: rechazo de una solicitud de negocio antes de construir cualquier payload.
	ErrValidation = errors.New("validación fallida")
	// ErrInconsistentState: un agregado no cuadra con sus filas. No debería ocurrir nunca.
	ErrInconsistentState = errors.New("estado inconsistente")
)

// Códigos de rechazo de ValidationError.
const (
	CodeNameRequired = "NAME_REQUIRED"
	CodeNameTooLong  = "NAME_TOO_LONG"
	CodeEmptyGroup   = "EMPTY_GROUP"
)

// ValidationError rechazo tipado con el campo afectado. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError construye un rechazo de validación.
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}
