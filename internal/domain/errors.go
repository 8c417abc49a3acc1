package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrInvalidQuantity  = errors.New("cantidad inválida: el lote quedaría con cantidad negativa")
	ErrSupplierRequired = errors.New("proveedor requerido para compras a crédito")
	ErrPersistence      = errors.New("falla al persistir los cambios")
)

// IsDomainError indica si err envuelve alguno de los errores de dominio conocidos.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized, ErrForbidden,
		ErrInvalidQuantity, ErrSupplierRequired, ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
