package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Referencia: corregibles por el cliente o problemas de integridad de datos. No se reintentan.
	ErrStoreNotFound      = errors.New("toko no encontrada")
	ErrStoreMisconfigured = errors.New("la toko no tiene kode_toko asignado")

	// Contención: transitorios bajo concurrencia, se reintentan dentro del orquestador.
	ErrParticipantNumberTaken = errors.New("nomor_kepesertaan ya asignado")
	ErrContention             = errors.New("contención de bloqueo en la base de datos")
	ErrRetriesExhausted       = errors.New("no se pudo registrar tras agotar los reintentos")

	// Capacidad: condiciones de negocio esperadas.
	ErrProductLimitReached = errors.New("límite de productos alcanzado")
	ErrStoreLimitReached   = errors.New("límite de tokos alcanzado")
	ErrSalesLimitReached   = errors.New("límite de sales por toko alcanzado")
)

// Códigos estables que consume la capa HTTP.
const (
	CodeProductLimitReached = "PRODUCT_LIMIT_REACHED"
	CodeStoreLimitReached   = "STORE_LIMIT_REACHED"
	CodeSalesLimitReached   = "SALES_LIMIT_REACHED"
)

// LimitScope identifica el contador que protege una operación de creación.
type LimitScope string

const (
	ScopeProducts LimitScope = "products"
	ScopeStores   LimitScope = "stores"
	ScopeSales    LimitScope = "sales"
)

// LimitError rechazo por capacidad. errors.Is lo empareja con el sentinel del scope.
type LimitError struct {
	Scope LimitScope
	Code  string
	Total int64
	Limit int64
}

// NewLimitError construye el error de capacidad para el scope dado.
func NewLimitError(scope LimitScope, total, limit int64) *LimitError {
	return &LimitError{Scope: scope, Code: limitCode(scope), Total: total, Limit: limit}
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s (%d/%d)", e.Unwrap().Error(), e.Total, e.Limit)
}

// Unwrap devuelve el sentinel del scope.
func (e *LimitError) Unwrap() error {
	switch e.Scope {
	case ScopeProducts:
		return ErrProductLimitReached
	case ScopeStores:
		return ErrStoreLimitReached
	case ScopeSales:
		return ErrSalesLimitReached
	}
	return ErrConflict
}

// Message texto fijo para el usuario final.
func (e *LimitError) Message() string {
	switch e.Scope {
	case ScopeProducts:
		return "se alcanzó el número máximo de productos registrados"
	case ScopeStores:
		return "se alcanzó el número máximo de tokos"
	case ScopeSales:
		return fmt.Sprintf("la toko ya tiene el máximo de %d sales", e.Limit)
	}
	return "límite alcanzado"
}

func limitCode(scope LimitScope) string {
	switch scope {
	case ScopeProducts:
		return CodeProductLimitReached
	case ScopeStores:
		return CodeStoreLimitReached
	case ScopeSales:
		return CodeSalesLimitReached
	}
	return "LIMIT_REACHED"
}

// IsRetryable informa si el error pertenece a la categoría de contención.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrParticipantNumberTaken) || errors.Is(err, ErrContention)
}
