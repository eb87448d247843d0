// Package errs contiene los errores de dominio compartidos entre capas
// (servicios, adapters de storage y handlers HTTP).
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: la medicina o dosis referenciada no existe.
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrConflict: precondición de archive/reactivate no cumplida
	// (no existe, o ya está en el estado destino).
	ErrNotFoundOrConflict = errors.New("not found or conflict")

	// ErrForbidden: mutación fuera de la ventana de edición.
	ErrForbidden = errors.New("forbidden")

	// ErrStorage envuelve fallos inesperados del motor de persistencia.
	ErrStorage = errors.New("storage error")
)

// ValidationError describe un input mal formado, con el campo y el motivo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Invalid construye un *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ForbiddenError agrega el motivo y la fecha de la dosis rechazada.
// errors.Is(err, ErrForbidden) es true.
type ForbiddenError struct {
	Reason string
	Date   string
}

func (e *ForbiddenError) Error() string { return e.Reason }

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// Storage envuelve err como ErrStorage conservando el original en la cadena.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsValidation reporta si err (o alguno de su cadena) es un *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
