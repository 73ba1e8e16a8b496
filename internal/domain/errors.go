package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInfrastructure    = errors.New("error de infraestructura")
	ErrDuplicate         = errors.New("recurso duplicado")
)

// ErrorKind clasifica los errores de una venta para decidir el código HTTP.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindInsufficientStock
	KindInfrastructure
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindInfrastructure:
		return "INTERNAL"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// SaleError error estructurado del flujo de venta: tipo, mensaje legible,
// producto que lo provocó (si aplica) y el error de almacenamiento original.
type SaleError struct {
	Kind      ErrorKind
	Message   string
	ProductID string
	Err       error
}

func (e *SaleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, domain.ErrInsufficientStock) y similares según Kind.
func (e *SaleError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindValidation
	case ErrInsufficientStock:
		return e.Kind == KindInsufficientStock
	case ErrInfrastructure:
		return e.Kind == KindInfrastructure
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	t, ok := target.(*SaleError)
	return ok && t.Kind == e.Kind
}

// NewValidationError construye un SaleError de validación.
func NewValidationError(msg string) *SaleError {
	return &SaleError{Kind: KindValidation, Message: msg}
}

// NewInsufficientStockError construye un SaleError para el producto sin stock o inexistente.
func NewInsufficientStockError(productID string) *SaleError {
	return &SaleError{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("stock insuficiente o producto inexistente para productId=%s", productID),
		ProductID: productID,
	}
}

// NewInfrastructureError envuelve un fallo de almacenamiento.
func NewInfrastructureError(msg string, err error) *SaleError {
	return &SaleError{Kind: KindInfrastructure, Message: msg, Err: err}
}
