package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y límites.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse detalle de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope cuerpo común de todas las respuestas de la API.
type Envelope struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Data       any            `json:"data,omitempty"`
	Error      *ErrorResponse `json:"error,omitempty"`
	Pagination *PageResponse  `json:"pagination,omitempty"`
}

// OK envelope de éxito.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Page envelope de éxito con paginación.
func Page(data any, page PageRequest, total int) Envelope {
	return Envelope{
		Success:    true,
		Data:       data,
		Pagination: &PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
}

// Fail envelope de error.
func Fail(code, message string) Envelope {
	return Envelope{Success: false, Message: message, Error: &ErrorResponse{Code: code, Message: message}}
}
