package dto

// Valores por defecto de paginación de ventas.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest paginación por página (base 1) y límite.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto y límites.
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset devuelve el número de registros a saltar.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// MessageResponse confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}
